package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"hotel-backoffice/config"

	"github.com/rs/zerolog"
)

// Message is one outgoing email with plain and HTML alternatives.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends through an SMTP relay. With no credentials configured it only logs the message.
type SMTPSender struct {
	cfg config.MailConfig
	log zerolog.Logger
}

func NewSMTPSender(cfg config.MailConfig, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

func (s *SMTPSender) configured() bool {
	return s.cfg.SMTPHost != "" && s.cfg.SMTPPort != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.configured() {
		s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("[MOCK EMAIL] smtp not configured")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", headerSafe(s.cfg.FromName), s.cfg.Username)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)

	body := buildMIME(from, msg)
	if err := smtp.SendMail(addr, auth, s.cfg.Username, []string{msg.To}, body); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func headerSafe(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func buildMIME(from string, msg Message) []byte {
	const boundary = "----=_HOTEL_MAIL_BOUNDARY"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", headerSafe(msg.To)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", headerSafe(msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.Text + "\r\n")

	if msg.HTML != "" {
		sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		sb.WriteString(msg.HTML + "\r\n")
	}

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}
