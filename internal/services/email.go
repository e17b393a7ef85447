package services

import (
	"fmt"
	"html"

	"github.com/princeprakhar/bookmind/internal/config"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendWelcomeEmail(to, username string) error
}

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

func (s *EmailService) SendWelcomeEmail(to, username string) error {
	subject := "Welcome to BookMind"
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your BookMind account is ready.</p>
		<p><a href="%s/add">Write your first review</a></p>
		<p>Happy reading,<br>The BookMind Team</p>
	`, html.EscapeString(username), s.config.BaseURL)

	return s.SendEmail(to, subject, body)
}
