package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/identity"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/prediction"
)

// ErrPredictionNotFound is returned when feedback references a prediction
// that does not exist.
var ErrPredictionNotFound = errors.New("prediction not found")

func validTypes() map[string]bool {
	return map[string]bool{
		TypeCorrect:       true,
		TypeFalsePositive: true,
		TypeFalseNegative: true,
		TypeUnsure:        true,
	}
}

type Service struct {
	feedback    Repository
	predictions prediction.Repository
	users       identity.UserRepository
}

func NewService(feedback Repository, predictions prediction.Repository, users identity.UserRepository) *Service {
	return &Service{feedback: feedback, predictions: predictions, users: users}
}

// Create records a clinician's verdict on an existing prediction and fills
// in the submitting user's name for the response.
func (s *Service) Create(ctx context.Context, f *Feedback) error {
	if f.PredictionID == uuid.Nil {
		return fmt.Errorf("prediction_id is required")
	}
	if f.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if !validTypes()[f.FeedbackType] {
		return fmt.Errorf("invalid feedback type %q", f.FeedbackType)
	}
	if _, err := s.predictions.GetByID(ctx, f.PredictionID); err != nil {
		return fmt.Errorf("%w: %s", ErrPredictionNotFound, f.PredictionID)
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return err
	}
	if u, err := s.users.GetByID(ctx, f.UserID); err == nil {
		f.UserName = &u.FullName
	}
	return nil
}

func (s *Service) ListByPrediction(ctx context.Context, predictionID uuid.UUID) ([]*Feedback, error) {
	if _, err := s.predictions.GetByID(ctx, predictionID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPredictionNotFound, predictionID)
	}
	return s.feedback.ListByPrediction(ctx, predictionID)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	return s.feedback.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	return s.feedback.ListByPatient(ctx, patientID, limit, offset)
}
