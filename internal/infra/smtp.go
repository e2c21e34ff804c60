package infra

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/stain603/industrial-inventory-manager/internal/config"

	"github.com/jordan-wright/email"
)

// Sender delivers a message with an optional file attachment.
type Sender interface {
	Send(to []string, subject, body, attachmentPath string) error
}

// Mailer sends mail through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configured reports whether an SMTP host was provided.
func (m *Mailer) Configured() bool { return m.host != "" }

func (m *Mailer) Send(to []string, subject, body, attachmentPath string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer: SMTP_HOST not set")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", attachmentPath, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}

// SplitRecipients turns "a@x, b@y" into a clean address list.
func SplitRecipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
