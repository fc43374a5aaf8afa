package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/alert"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/identity"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/patient"
)

// Dispatcher fans one alert out to the broadcast channel and to each
// recipient's email address.
type Dispatcher struct {
	broadcaster *Broadcaster
	email       EmailSender
	sms         SMSSender
	logger      zerolog.Logger
}

func NewDispatcher(broadcaster *Broadcaster, email EmailSender, sms SMSSender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{broadcaster: broadcaster, email: email, sms: sms, logger: logger}
}

// Notify broadcasts the alert and emails every active recipient that
// has an address. Per-recipient sends run concurrently and fail
// independently; inactive recipients and recipients without an email
// are skipped without being counted as failures.
func (d *Dispatcher) Notify(ctx context.Context, a *alert.Alert, p *patient.Patient, recipients []*identity.User) Outcome {
	outcome := newOutcome()
	outcome.PublishedToRedis = d.broadcaster.Publish(ctx, a)

	subject := fmt.Sprintf("SEPSIS ALERT: %s - Severity %d",
		strings.ReplaceAll(a.AlertType, "_", " "), a.Severity)
	html := renderEmailHTML(a, p)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, u := range recipients {
		if !u.IsActive || u.Email == nil || *u.Email == "" {
			continue
		}
		wg.Add(1)
		go func(u *identity.User) {
			defer wg.Done()
			err := d.email.SendEmail(ctx, *u.Email, subject, a.Message, html)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.EmailFailed = append(outcome.EmailFailed, u.ID.String())
			} else {
				outcome.EmailSent = append(outcome.EmailSent, u.ID.String())
			}
		}(u)
	}
	wg.Wait()

	d.logger.Info().
		Str("alert_id", a.ID.String()).
		Int("email_sent", len(outcome.EmailSent)).
		Int("email_failed", len(outcome.EmailFailed)).
		Bool("published", outcome.PublishedToRedis).
		Msg("alert fan-out complete")
	return outcome
}

func severityColor(severity int) string {
	switch severity {
	case 5:
		return "#FF0000"
	case 4:
		return "#FF6600"
	case 3:
		return "#FFCC00"
	case 2:
		return "#33CC33"
	default:
		return "#000000"
	}
}

func renderEmailHTML(a *alert.Alert, p *patient.Patient) string {
	patientName := ""
	mrn := "Unknown"
	if p != nil {
		patientName = p.FullName()
		if p.MRN != nil {
			mrn = *p.MRN
		}
	}
	createdAt := "N/A"
	if !a.CreatedAt.IsZero() {
		createdAt = a.CreatedAt.Format("2006-01-02 15:04:05")
	}
	color := severityColor(a.Severity)

	return fmt.Sprintf(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #003366; color: white; padding: 10px; text-align: center; }
  .alert-box { border: 2px solid %[1]s; padding: 15px; margin-top: 20px; }
  .alert-title { color: %[1]s; font-weight: bold; font-size: 18px; }
  .patient-info { background-color: #f0f0f0; padding: 10px; margin-top: 20px; }
  .footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>Sepsis Alert Notification</h1></div>
  <div class="alert-box">
    <div class="alert-title">%s</div>
    <p>%s</p>
  </div>
  <div class="patient-info">
    <h3>Patient Information</h3>
    <p><strong>Name:</strong> %s</p>
    <p><strong>MRN:</strong> %s</p>
    <p><strong>Alert Generated:</strong> %s</p>
  </div>
  <div>
    <h3>Required Action</h3>
    <p>Please review this patient's status as soon as possible and update the alert status in the Sepsis Management System.</p>
  </div>
  <div class="footer">
    <p>This is an automated message from the Sepsis Management System. Please do not reply to this email.</p>
    <p>If you have any questions, please contact IT support.</p>
  </div>
</div>
</body>
</html>`,
		color,
		strings.ReplaceAll(a.AlertType, "_", " "),
		a.Message,
		patientName,
		mrn,
		createdAt,
	)
}
