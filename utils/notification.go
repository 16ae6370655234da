package utils

import (
	"fmt"
	"log"
	"time"

	"lms/models"

	"gorm.io/gorm"
)

const notifyBatchSize = 500

// recipientQuery selects the ids (and emails) of the audience of n
func recipientQuery(db *gorm.DB, n *models.Notification, now time.Time) (*gorm.DB, error) {
	q := db.Model(&models.User{}).Where("is_deleted = ?", false)
	switch n.Audience {
	case models.AudienceAll:
		return q, nil
	case models.AudiencePremium:
		return q.Where("is_premium = ? AND (premium_expires_at IS NULL OR premium_expires_at > ?)", true, now), nil
	case models.AudienceUser:
		if n.TargetUserID == nil {
			return nil, fmt.Errorf("audience %s needs a target user", n.Audience)
		}
		return q.Where("id = ?", *n.TargetUserID), nil
	default:
		return nil, fmt.Errorf("unknown audience %q", n.Audience)
	}
}

type recipient struct {
	ID    uint
	Email string
}

// Notify stores n and one UserNotification per recipient in one
// transaction, then delivers email and webhook in the background.
func Notify(db *gorm.DB, n *models.Notification) error {
	now := time.Now()
	var emails []string

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}

		q, err := recipientQuery(tx, n, now)
		if err != nil {
			return err
		}

		total := 0
		var lastID uint
		for {
			var batch []recipient
			if err := q.Session(&gorm.Session{}).
				Select("id", "email").
				Where("id > ?", lastID).
				Order("id asc").
				Limit(notifyBatchSize).
				Find(&batch).Error; err != nil {
				return err
			}
			if len(batch) == 0 {
				break
			}

			rows := make([]models.UserNotification, len(batch))
			for i, r := range batch {
				rows[i] = models.UserNotification{NotificationID: n.ID, UserID: r.ID}
				if n.SendEmail && r.Email != "" {
					emails = append(emails, r.Email)
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}

			total += len(rows)
			lastID = batch[len(batch)-1].ID
			if len(batch) < notifyBatchSize {
				break
			}
		}

		n.Recipients = total
		return tx.Model(n).Update("recipients", total).Error
	})
	if err != nil {
		return err
	}

	log.Printf("[NOTIFY] Notification %d (%s) delivered to %d users", n.ID, n.Audience, n.Recipients)

	go deliver(*n, emails)
	return nil
}

func deliver(n models.Notification, emails []string) {
	if len(emails) > 0 {
		if err := SendNotificationEmail(emails, n.Title, n.Body); err != nil {
			log.Printf("[NOTIFY] Email delivery of notification %d failed: %v", n.ID, err)
		}
	}

	err := PostWebhook(WebhookPayload{
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Body,
		Audience:       n.Audience,
		Recipients:     n.Recipients,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		log.Printf("[NOTIFY] Webhook delivery of notification %d failed: %v", n.ID, err)
	}
}

// NotifyUser sends a notification to a single user
func NotifyUser(db *gorm.DB, userID uint, title, body string, sendEmail bool) error {
	return Notify(db, &models.Notification{
		Title:        title,
		Body:         body,
		Audience:     models.AudienceUser,
		TargetUserID: &userID,
		SendEmail:    sendEmail,
	})
}
