package feedback

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	// ListByPrediction returns all feedback for one prediction, newest first.
	ListByPrediction(ctx context.Context, predictionID uuid.UUID) ([]*Feedback, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Feedback, int, error)
	// ListByPatient returns feedback across all of the patient's predictions.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Feedback, int, error)
}
