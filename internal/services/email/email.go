package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/utils"
)

// EmailService handles sending emails
type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
}

// NewEmailService creates a new email service
func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:     os.Getenv("SMTP_HOST"),
		smtpPort:     os.Getenv("SMTP_PORT"),
		smtpUsername: os.Getenv("SMTP_USERNAME"),
		smtpPassword: os.Getenv("SMTP_PASSWORD"),
		fromEmail:    os.Getenv("FROM_EMAIL"),
	}
}

// SendLeadNotification tells an agent that a new lead arrived through
// one of their referral links
func (s *EmailService) SendLeadNotification(agent *models.User, lead *models.Lead, linkName string) error {
	subject := fmt.Sprintf("New Lead: %s (%s insurance)", lead.Name, lead.InsuranceType)
	leadLink := fmt.Sprintf("%s/leads/%s", os.Getenv("FRONTEND_URL"), lead.ID)

	score := "pending"
	if lead.ValidationScore != nil {
		score = fmt.Sprintf("%d/100", *lead.ValidationScore)
	}

	rewardRow := ""
	if lead.RewardAmount != nil && *lead.RewardAmount > 0 {
		rewardRow = fmt.Sprintf(`<p class="detail"><strong>Reward on conversion:</strong> %s</p>`,
			utils.FormatCurrency(*lead.RewardAmount, "USD"))
	}
	notesRow := ""
	if lead.Notes != nil && *lead.Notes != "" {
		notesRow = fmt.Sprintf(`<p class="detail"><strong>Notes:</strong> %s</p>`,
			utils.TruncateString(*lead.Notes, 200))
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; line-height: 1.6; }
			.container { max-width: 600px; margin: 0 auto; padding: 20px; }
			.header { background-color: #1D4ED8; color: white; padding: 10px; text-align: center; }
			.content { padding: 20px; }
			.detail { margin: 4px 0; }
			.button { display: inline-block; background-color: #1D4ED8; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>InsuraLoop</h1>
			</div>
			<div class="content">
				<h2>Hello %s,</h2>
				<p>You have a new lead from your referral link "%s".</p>
				<p class="detail"><strong>Name:</strong> %s</p>
				<p class="detail"><strong>Email:</strong> %s</p>
				<p class="detail"><strong>Phone:</strong> %s</p>
				<p class="detail"><strong>Insurance type:</strong> %s</p>
				<p class="detail"><strong>Quality score:</strong> %s</p>
				%s%s
				<p><a href="%s" class="button">View Lead</a></p>
				<p>Reach out soon. Leads contacted in the first hour convert best.</p>
				<p>Best regards,<br>The InsuraLoop Team</p>
			</div>
		</div>
	</body>
	</html>
	`, agent.FullName(), linkName, lead.Name, lead.Email, lead.Phone, lead.InsuranceType, score, rewardRow, notesRow, leadLink)

	return s.sendEmail(agent.Email, subject, body)
}

// SendWelcomeEmail greets a newly registered agent
func (s *EmailService) SendWelcomeEmail(agent *models.User) error {
	subject := "Welcome to InsuraLoop"
	dashboardLink := fmt.Sprintf("%s/dashboard", os.Getenv("FRONTEND_URL"))

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; line-height: 1.6; }
			.container { max-width: 600px; margin: 0 auto; padding: 20px; }
			.header { background-color: #1D4ED8; color: white; padding: 10px; text-align: center; }
			.content { padding: 20px; }
			.button { display: inline-block; background-color: #1D4ED8; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>InsuraLoop</h1>
			</div>
			<div class="content">
				<h2>Hello %s,</h2>
				<p>Your InsuraLoop account is ready. Create your first referral link and start collecting leads.</p>
				<p><a href="%s" class="button">Go to Dashboard</a></p>
				<p>Best regards,<br>The InsuraLoop Team</p>
			</div>
		</div>
	</body>
	</html>
	`, agent.FullName(), dashboardLink)

	return s.sendEmail(agent.Email, subject, body)
}

// sendEmail sends an email with HTML content
func (s *EmailService) sendEmail(toEmail, subject, htmlBody string) error {
	if s.smtpHost == "" || s.smtpPort == "" || s.smtpUsername == "" || s.smtpPassword == "" {
		log.Println("Email service not configured properly. Check environment variables.")
		return fmt.Errorf("email service not configured")
	}

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	from := fmt.Sprintf("From: InsuraLoop <%s>\n", s.fromEmail)
	to := fmt.Sprintf("To: %s\n", toEmail)
	subject = fmt.Sprintf("Subject: %s\n", subject)

	message := []byte(from + to + subject + mime + htmlBody)

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	return smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, message)
}
