package utils

import (
	"fmt"
	"html"
	"log"
	"time"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid accepts at most 1000 personalizations per request
const maxRecipientsPerMail = 1000

// SendEmail sends one message per recipient through SendGrid. Recipients do
// not see each other.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendgridAPIKey == "" {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping %q to %d recipients", subject, len(to))
		return nil
	}

	client := sendgrid.NewSendClient(cfg.SendgridAPIKey)
	from := mail.NewEmail(cfg.EmailSenderName, cfg.EmailSender)

	for start := 0; start < len(to); start += maxRecipientsPerMail {
		end := start + maxRecipientsPerMail
		if end > len(to) {
			end = len(to)
		}

		message := mail.NewV3Mail()
		message.SetFrom(from)
		message.Subject = subject
		message.AddContent(mail.NewContent("text/html", htmlBody))
		for _, addr := range to[start:end] {
			p := mail.NewPersonalization()
			p.AddTos(mail.NewEmail("", addr))
			message.AddPersonalizations(p)
		}

		response, err := client.Send(message)
		if err != nil {
			log.Printf("[EMAIL] Error sending %q: %v", subject, err)
			return err
		}
		if response.StatusCode >= 300 {
			log.Printf("[EMAIL] SendGrid rejected %q: %d %s", subject, response.StatusCode, response.Body)
			return fmt.Errorf("sendgrid status %d", response.StatusCode)
		}
	}

	log.Printf("[EMAIL] Sent %q to %d recipients", subject, len(to))
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Helvetica, Arial, sans-serif; background-color: #F4F6F8; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 24px; text-align: center; color: #FFFFFF; }
			.content { padding: 32px 28px; color: #1F2933; line-height: 1.6; }
			.info-box { background: #EEF4FB; padding: 14px; border-radius: 4px; border-left: 4px solid #3E7CB1; margin: 20px 0; }
			.footer { padding: 16px; text-align: center; font-size: 12px; color: #7B8794; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You receive this email because you have an account on %s.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(config.AppConfig.EmailSenderName), html.EscapeString(title), bodyContent, html.EscapeString(config.AppConfig.EmailSenderName))
}

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account is ready. Start with the first chapter whenever you like.</p>
	`, html.EscapeString(name))

	go SendEmail([]string{email}, "Welcome!", getEmailTemplate("Welcome Onboard!", body))
}

func SendPaymentApprovedEmail(email, name, plan string, until time.Time) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your <strong>%s</strong> premium payment was approved.</p>
		<div class="info-box">Premium content is unlocked until <strong>%s</strong>.</div>
	`, html.EscapeString(name), plan, until.Format("02 Jan 2006"))

	go SendEmail([]string{email}, "Premium activated", getEmailTemplate("Payment Approved", body))
}

func SendPaymentRejectedEmail(email, name, reason string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We could not verify your premium payment.</p>
		<div class="info-box">Reason: %s</div>
		<p>You can submit a new payment from your profile.</p>
	`, html.EscapeString(name), html.EscapeString(reason))

	go SendEmail([]string{email}, "Premium payment rejected", getEmailTemplate("Payment Rejected", body))
}

// SendNotificationEmail delivers an admin notification to its recipients
func SendNotificationEmail(to []string, title, message string) error {
	body := fmt.Sprintf(`<p>%s</p>`, html.EscapeString(message))
	return SendEmail(to, title, getEmailTemplate(title, body))
}
