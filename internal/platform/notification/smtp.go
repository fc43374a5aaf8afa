package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail over a plain SMTP connection upgraded with
// STARTTLS. Each send opens its own connection.
type SMTPSender struct {
	cfg    SMTPConfig
	logger zerolog.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger zerolog.Logger) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, text, html string) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		s.logger.Warn().Msg("smtp credentials not configured, skipping email")
		return fmt.Errorf("smtp credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	msg := buildMIMEMessage(s.cfg.From, to, subject, text, html)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("failed to send email")
		return err
	}
	s.logger.Info().Str("to", to).Msg("sent email alert")
	return nil
}

// buildMIMEMessage assembles a multipart/alternative message with plain
// text and optional HTML parts.
func buildMIMEMessage(from, to, subject, text, html string) []byte {
	const boundary = "sepsiswatch-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if html == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(text)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, text)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, html)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogSMSSender is a stand-in SMS transport that only records what it
// would have sent. A real gateway integration slots in behind SMSSender.
type LogSMSSender struct {
	logger zerolog.Logger
}

func NewLogSMSSender(logger zerolog.Logger) *LogSMSSender {
	return &LogSMSSender{logger: logger}
}

func (s *LogSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info().Str("to", to).Str("body", body).Msg("would send SMS")
	return nil
}
