package utils

import (
	"fmt"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// WebhookPayload is posted to NOTIFY_WEBHOOK_URL for every notification
type WebhookPayload struct {
	NotificationID uint      `json:"notification_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Audience       string    `json:"audience"`
	Recipients     int       `json:"recipients"`
	CreatedAt      time.Time `json:"created_at"`
}

var webhookClient = resty.New().
	SetTimeout(10 * time.Second).
	SetRetryCount(2).
	SetRetryWaitTime(time.Second)

// PostWebhook is a no-op when no webhook is configured
func PostWebhook(payload WebhookPayload) error {
	url := config.AppConfig.WebhookURL
	if url == "" {
		return nil
	}

	resp, err := webhookClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
