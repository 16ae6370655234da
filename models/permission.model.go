package models

import (
	"gorm.io/gorm"
)

// Back-office permissions
const (
	PermManageContent     = "manage-content"
	PermReviewPayments    = "review-payments"
	PermSendNotifications = "send-notifications"
	PermViewReports       = "view-reports"
)

type Permission struct {
	gorm.Model
	UserID     uint `gorm:"not null;index"`
	User       User `gorm:"foreignKey:UserID"`
	Role       string
	Permission string `gorm:"type:varchar(255)"` // e.g., "manage-content"
	IsDeleted  bool   `gorm:"default:false"`
}

// DefaultPermissions returns the permission set seeded for a role
func DefaultPermissions(role string) []string {
	if role == RoleAdmin {
		return []string{
			PermManageContent,
			PermReviewPayments,
			PermSendNotifications,
			PermViewReports,
		}
	}
	return nil
}
