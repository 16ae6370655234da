// Package report aggregates student quiz activity for the back-office.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Window kinds
const (
	WindowDay    = "day"
	WindowWeek   = "week"
	WindowMonth  = "month"
	WindowAll    = "all"
	WindowCustom = "custom"
)

var ErrInvalidWindow = errors.New("invalid report window")

// Window is a half-open [From, To) range. A zero From means unbounded.
type Window struct {
	Kind string    `json:"kind"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ParseWindow resolves kind to calendar boundaries in loc. Weeks start on
// Monday. For custom windows, from is required and to defaults to t; both
// dates are inclusive.
func ParseWindow(kind, from, to string, t time.Time, loc *time.Location) (Window, error) {
	cfg := &now.Config{WeekStartDay: time.Monday, TimeLocation: loc}
	cur := cfg.With(t.In(loc))

	w := Window{Kind: kind, To: t}
	switch kind {
	case WindowDay:
		w.From = cur.BeginningOfDay()
	case WindowWeek:
		w.From = cur.BeginningOfWeek()
	case "", WindowMonth:
		w.Kind = WindowMonth
		w.From = cur.BeginningOfMonth()
	case WindowAll:
	case WindowCustom:
		if from == "" {
			return Window{}, fmt.Errorf("%w: from is required for custom windows", ErrInvalidWindow)
		}
		start, err := cfg.Parse(from)
		if err != nil {
			return Window{}, fmt.Errorf("%w: bad from date %q", ErrInvalidWindow, from)
		}
		w.From = cfg.With(start).BeginningOfDay()
		if to != "" {
			end, err := cfg.Parse(to)
			if err != nil {
				return Window{}, fmt.Errorf("%w: bad to date %q", ErrInvalidWindow, to)
			}
			// to is inclusive, so the window ends at the next midnight
			w.To = cfg.With(end).BeginningOfDay().AddDate(0, 0, 1)
		}
		if !w.From.Before(w.To) {
			return Window{}, fmt.Errorf("%w: from must be before to", ErrInvalidWindow)
		}
	default:
		return Window{}, fmt.Errorf("%w: unknown window %q", ErrInvalidWindow, kind)
	}
	return w, nil
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	return t.Before(w.To)
}
