package prediction

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prediction, error)
	// ListByPatient returns predictions ordered by timestamp descending.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error)
}
