package utils

import (
	"fmt"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Premium reminders go out this long before expiry
const premiumReminderLead = 3 * 24 * time.Hour

// InitializePremiumScheduler runs the premium checks every day at 09:00 in
// SCHEDULER_TIMEZONE and once on start.
func InitializePremiumScheduler() *cron.Cron {
	log.Println("[PREMIUM-SCHEDULER] Initializing premium scheduler...")

	c := cron.New(cron.WithLocation(config.AppConfig.Location()))

	_, err := c.AddFunc("0 9 * * *", runPremiumChecks)
	if err != nil {
		log.Printf("[PREMIUM-SCHEDULER] Error scheduling premium checks: %v", err)
		return c
	}

	c.Start()
	go runPremiumChecks()

	log.Printf("[PREMIUM-SCHEDULER] Premium scheduler started - runs daily at 9 AM %s", config.AppConfig.SchedulerTimezone)
	return c
}

func runPremiumChecks() {
	log.Println("[PREMIUM-SCHEDULER] Running daily premium check...")
	db := database.Database.Db
	now := time.Now()

	reminded, err := ProcessExpiringPremium(db, now)
	if err != nil {
		log.Printf("[PREMIUM-SCHEDULER] Error sending reminders: %v", err)
	}
	expired, err := ExpirePremium(db, now)
	if err != nil {
		log.Printf("[PREMIUM-SCHEDULER] Error expiring premium: %v", err)
	}
	log.Printf("[PREMIUM-SCHEDULER] Sent %d reminders, expired %d users", reminded, expired)
}

// ProcessExpiringPremium notifies users whose premium ends within the
// reminder lead. Each user is reminded once per premium window.
func ProcessExpiringPremium(db *gorm.DB, now time.Time) (int, error) {
	var users []models.User
	if err := db.
		Where("is_premium = ? AND premium_reminder_sent = ? AND premium_expires_at IS NOT NULL", true, false).
		Where("premium_expires_at > ? AND premium_expires_at <= ?", now, now.Add(premiumReminderLead)).
		Find(&users).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, user := range users {
		body := fmt.Sprintf("Your premium access ends on %s. Renew to keep access to premium chapters.",
			user.PremiumExpiresAt.In(config.AppConfig.Location()).Format("02 Jan 2006"))
		if err := NotifyUser(db, user.ID, "Premium expiring soon", body, true); err != nil {
			log.Printf("[PREMIUM-SCHEDULER] Error notifying user %d: %v", user.ID, err)
			continue
		}

		if err := db.Model(&user).Update("premium_reminder_sent", true).Error; err != nil {
			log.Printf("[PREMIUM-SCHEDULER] Error marking reminder for user %d: %v", user.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// ExpirePremium switches off premium for users whose window has passed.
// The expiry is re-checked by the update itself so a renewal approved after
// the select is left alone.
func ExpirePremium(db *gorm.DB, now time.Time) (int, error) {
	var users []models.User
	if err := db.
		Where("is_premium = ? AND premium_expires_at IS NOT NULL AND premium_expires_at <= ?", true, now).
		Find(&users).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, user := range users {
		res := db.Model(&models.User{}).
			Where("id = ? AND is_premium = ? AND premium_expires_at <= ?", user.ID, true, now).
			Updates(map[string]interface{}{"is_premium": false, "premium_reminder_sent": false})
		if res.Error != nil {
			log.Printf("[PREMIUM-SCHEDULER] Error expiring user %d: %v", user.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			log.Printf("[PREMIUM-SCHEDULER] User %d renewed before expiry, skipping", user.ID)
			continue
		}
		expired++

		if err := NotifyUser(db, user.ID, "Premium expired", "Your premium access has ended. Premium chapters are locked until you renew.", true); err != nil {
			log.Printf("[PREMIUM-SCHEDULER] Error notifying user %d: %v", user.ID, err)
		}
	}
	return expired, nil
}
