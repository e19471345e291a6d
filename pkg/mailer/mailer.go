package mailer

import (
	"fmt"
	"log"
	"net"
	"net/smtp"
	"os"
	"time"
)

// Sender delivers the confirmation-code emails. Delivery is best-effort:
// the code is recomputable, so callers log failures instead of failing the
// request.
type Sender interface {
	Send(to string, subject string, body string) error
}

// ConsoleSender logs the message instead of delivering it. Used in
// development and tests.
type ConsoleSender struct{}

func (s *ConsoleSender) Send(to string, subject string, body string) error {
	log.Printf("=== MOCK EMAIL ===\nTo: %s\nSubject: %s\n%s\n==================", to, subject, body)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &SMTPSender{config: config}
}

// Send delivers a plain-text message over SMTP. The whole exchange runs
// under a single connection deadline so a slow mail transport cannot hold
// the signup request open indefinitely.
func (s *SMTPSender) Send(to string, subject string, body string) error {
	address := net.JoinHostPort(s.config.Host, s.config.Port)

	conn, err := net.DialTimeout("tcp", address, s.config.Timeout)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(s.config.Timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer client.Close()

	if s.config.User != "" {
		auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth failed: %w", err)
			}
		}
	}

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	msg := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.From, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish email body: %w", err)
	}

	return client.Quit()
}

func NewSenderFromEnv() Sender {
	if os.Getenv("MAIL_PROVIDER") == "smtp" {
		timeout := 5 * time.Second
		if raw := os.Getenv("SMTP_TIMEOUT"); raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil {
				timeout = parsed
			}
		}
		return NewSMTPSender(SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			Timeout:  timeout,
		})
	}
	return &ConsoleSender{}
}
