package monitoring

import (
	"fmt"
	"log"
	"net/smtp"
)

// EmailConfig holds SMTP settings for the email alert channel.
type EmailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	To       string
}

// EmailNotifier sends alert emails over SMTP. When no host is configured it
// falls back to logging the message, so local development needs no mail
// server.
type EmailNotifier struct {
	cfg        EmailConfig
	configured bool
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	configured := cfg.Host != "" && cfg.Port != "" && cfg.To != ""
	if !configured {
		log.Println("Email alerts not configured, using console fallback")
	}
	return &EmailNotifier{cfg: cfg, configured: configured}
}

func (e *EmailNotifier) Send(subject, body string) error {
	if !e.configured {
		log.Printf("email alert (console fallback): %s: %s", subject, body)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		e.cfg.From, e.cfg.To, subject, body)

	var auth smtp.Auth
	if e.cfg.User != "" {
		auth = smtp.PlainAuth("", e.cfg.User, e.cfg.Password, e.cfg.Host)
	}
	addr := e.cfg.Host + ":" + e.cfg.Port
	return smtp.SendMail(addr, auth, e.cfg.From, []string{e.cfg.To}, []byte(msg))
}
