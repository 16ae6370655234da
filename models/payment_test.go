package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtendPremium(t *testing.T) {
	at := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)
	active := time.Date(2026, 2, 10, 23, 59, 59, 0, time.UTC)
	lapsed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		current   *time.Time
		plan      string
		wantFrom  time.Time
		wantUntil string
	}{
		{"new monthly", nil, PlanMonthly, at, "2026-03-03"},
		{"new yearly", nil, PlanYearly, at, "2027-01-31"},
		{"active window is kept", &active, PlanMonthly, active, "2026-03-10"},
		{"lapsed window restarts now", &lapsed, PlanYearly, at, "2027-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, until := ExtendPremium(tt.current, tt.plan, at)
			assert.True(t, tt.wantFrom.Equal(from))
			assert.Equal(t, tt.wantUntil, until.Format("2006-01-02"))
			assert.Equal(t, 23, until.Hour())
		})
	}
}
