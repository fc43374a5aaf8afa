package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusPending:      true,
	StatusAcknowledged: true,
	StatusActionTaken:  true,
	StatusDismissed:    true,
}

type Service struct {
	alerts Repository
}

func NewService(alerts Repository) *Service {
	return &Service{alerts: alerts}
}

// CreateFromDetails persists a new pending alert synthesized for a prediction.
func (s *Service) CreateFromDetails(ctx context.Context, patientID, predictionID uuid.UUID, d Details) (*Alert, error) {
	a := &Alert{
		PatientID:    patientID,
		PredictionID: predictionID,
		AlertType:    d.AlertType,
		Severity:     d.Severity,
		Status:       StatusPending,
		Message:      d.Message,
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.alerts.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Alert, int, error) {
	if status != "" && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.alerts.List(ctx, status, limit, offset)
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*Alert, int, error) {
	return s.alerts.List(ctx, StatusPending, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Alert, int, error) {
	return s.alerts.ListByPatient(ctx, patientID, limit, offset)
}

// UpdateStatus moves a pending alert to one of the terminal states and
// records who handled it. Terminal alerts cannot be moved again.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, userID uuid.UUID) (*Alert, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == status {
		return a, nil
	}
	if a.Status != StatusPending {
		return nil, fmt.Errorf("alert is %s and cannot change to %s", a.Status, status)
	}
	if status == StatusPending {
		return nil, fmt.Errorf("alert cannot return to %s", StatusPending)
	}

	now := time.Now().UTC()
	a.Status = status
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = &userID
	if err := s.alerts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
