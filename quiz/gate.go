package quiz

import (
	"fmt"
	"time"
)

// WindowState classifies publish state of a content item at a moment.
type WindowState string

const (
	StateHidden    WindowState = "hidden"
	StateScheduled WindowState = "scheduled"
	StateLive      WindowState = "live"
)

const (
	ReasonNotPublished    = "not published"
	ReasonPremiumRequired = "premium required"
)

// Content is the gating view of a chapter or quiz.
type Content struct {
	IsPublished bool
	PublishAt   *time.Time
	IsPremium   bool
}

// Entitlement is the acting user's premium window.
type Entitlement struct {
	IsPremium        bool
	PremiumExpiresAt *time.Time
}

// Active reports whether the premium window is open at now.
func (e Entitlement) Active(now time.Time) bool {
	return e.IsPremium && (e.PremiumExpiresAt == nil || e.PremiumExpiresAt.After(now))
}

// Decision is the structured answer of the gate.
type Decision struct {
	Allowed      bool        `json:"allowed"`
	State        WindowState `json:"state"`
	Reason       string      `json:"reason,omitempty"`
	ScheduledFor *time.Time  `json:"scheduled_for,omitempty"`
}

// Classify derives the access window of c at now.
func Classify(c Content, now time.Time) WindowState {
	if !c.IsPublished {
		return StateHidden
	}
	if c.PublishAt != nil && c.PublishAt.After(now) {
		return StateScheduled
	}
	return StateLive
}

// CanAccess never fails; a denial carries the reason. Scheduled content is
// denied even to premium users.
func CanAccess(c Content, u Entitlement, now time.Time) Decision {
	state := Classify(c, now)
	switch state {
	case StateHidden:
		return Decision{State: state, Reason: ReasonNotPublished}
	case StateScheduled:
		at := *c.PublishAt
		return Decision{
			State:        state,
			Reason:       fmt.Sprintf("scheduled for %s", at.UTC().Format(time.RFC3339)),
			ScheduledFor: &at,
		}
	}

	if c.IsPremium && !u.Active(now) {
		return Decision{State: state, Reason: ReasonPremiumRequired}
	}
	return Decision{Allowed: true, State: state}
}

// CanAccessAll evaluates items in order (chapter before quiz) and returns the
// first denial, or the last allowed decision.
func CanAccessAll(u Entitlement, now time.Time, items ...Content) Decision {
	d := Decision{Allowed: true, State: StateLive}
	for _, item := range items {
		d = CanAccess(item, u, now)
		if !d.Allowed {
			return d
		}
	}
	return d
}
