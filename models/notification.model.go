package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification audiences
const (
	AudienceAll     = "ALL"
	AudiencePremium = "PREMIUM"
	AudienceUser    = "USER"
)

// Notification is authored once and fanned out as UserNotification rows
type Notification struct {
	gorm.Model
	Title        string `json:"title" gorm:"type:varchar(255);not null"`
	Body         string `json:"body" gorm:"type:text"`
	Audience     string `json:"audience" gorm:"type:varchar(20);default:'ALL'"`
	TargetUserID *uint  `json:"target_user_id"`
	CreatedBy    uint   `json:"created_by"`
	SendEmail    bool   `json:"send_email" gorm:"default:false"`
	Recipients   int    `json:"recipients" gorm:"default:0"`
}

type UserNotification struct {
	gorm.Model
	NotificationID uint       `json:"notification_id" gorm:"not null;uniqueIndex:idx_user_notification"`
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_notification;index"`
	IsRead         bool       `json:"is_read" gorm:"default:false"`
	ReadAt         *time.Time `json:"read_at"`

	Notification Notification `gorm:"foreignKey:NotificationID" json:"notification"`
}
