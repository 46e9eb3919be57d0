package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/dmehra2102/marketplace/internal/notification/domain"
)

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg domain.Message) error {
	m.log.Info("mail", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

type SMTPMailer struct {
	log  *slog.Logger
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer sends through the relay at addr (host:port). Credentials are
// optional.
func NewSMTPMailer(log *slog.Logger, addr, from, user, password string) *SMTPMailer {
	m := &SMTPMailer{log: log, addr: addr, from: from}
	if user != "" {
		host, _, _ := strings.Cut(addr, ":")
		m.auth = smtp.PlainAuth("", user, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtp.SendMail(m.addr, m.auth, m.from, msg.To, Format(m.from, msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Info("mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Format renders msg as an RFC 5322 plain text message.
func Format(from string, msg domain.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
