package models

import (
	"time"

	"lms/quiz"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Password            string     `json:"-" gorm:"not null"`
	Role                string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsPremium           bool       `json:"is_premium" gorm:"default:false"`
	PremiumExpiresAt    *time.Time `json:"premium_expires_at"`
	PremiumReminderSent bool       `json:"-" gorm:"default:false"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `json:"-" gorm:"default:false"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}

// Entitlement is the user's premium window as seen by the access gate.
func (u User) Entitlement() quiz.Entitlement {
	return quiz.Entitlement{IsPremium: u.IsPremium, PremiumExpiresAt: u.PremiumExpiresAt}
}
