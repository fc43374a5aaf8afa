package patient

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type ObservationRepository interface {
	Create(ctx context.Context, o *Observation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Observation, error)
	// ListByPatient returns all observations for a patient ordered by
	// timestamp descending (most recent first).
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Observation, int, error)
}
