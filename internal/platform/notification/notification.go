// Package notification fans a persisted alert out to real-time
// subscribers and clinician inboxes. Broadcast and email delivery are
// independent; a failure in one never blocks the other.
package notification

import (
	"context"
)

// EmailSender is the interface for sending email messages with an
// optional HTML alternative part.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) error
}

// SMSSender is the interface for sending SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Outcome collects per-channel delivery results for one alert.
// Recipient IDs land in the sent or failed bucket of their channel;
// recipients without a usable address appear in neither.
type Outcome struct {
	EmailSent        []string `json:"email_sent"`
	EmailFailed      []string `json:"email_failed"`
	SMSSent          []string `json:"sms_sent"`
	SMSFailed        []string `json:"sms_failed"`
	PublishedToRedis bool     `json:"published_to_redis"`
}

func newOutcome() Outcome {
	return Outcome{
		EmailSent:   []string{},
		EmailFailed: []string{},
		SMSSent:     []string{},
		SMSFailed:   []string{},
	}
}
