package models

import (
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// PaymentStatus enum values
const (
	PaymentPending  = "PENDING"
	PaymentApproved = "APPROVED"
	PaymentRejected = "REJECTED"
)

// PremiumPlan enum values
const (
	PlanMonthly = "MONTHLY"
	PlanYearly  = "YEARLY"
)

// PremiumPayment is a manually reviewed payment that unlocks premium content
type PremiumPayment struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"not null;index"`
	Plan            string     `json:"plan" gorm:"type:varchar(20);not null"`
	Amount          float64    `json:"amount" gorm:"not null;default:0"`
	Reference       string     `json:"reference" gorm:"type:varchar(100)"` // bank transfer reference given by the user
	ProofURL        string     `json:"proof_url"`
	Status          string     `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason string     `json:"rejection_reason"`
	PremiumFrom     *time.Time `json:"premium_from"`
	PremiumUntil    *time.Time `json:"premium_until"`
	IsDeleted       bool       `json:"-" gorm:"default:false"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PremiumPayment) TableName() string {
	return "premium_payments"
}

// ExtendPremium returns the new premium window after approving plan at t.
// Time left on an active window is kept.
func ExtendPremium(current *time.Time, plan string, t time.Time) (from, until time.Time) {
	from = t
	if current != nil && current.After(t) {
		from = *current
	}
	switch plan {
	case PlanYearly:
		until = from.AddDate(1, 0, 0)
	default:
		until = from.AddDate(0, 1, 0)
	}
	return from, now.With(until).EndOfDay()
}
