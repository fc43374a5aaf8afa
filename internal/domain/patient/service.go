package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients     PatientRepository
	observations ObservationRepository
}

func NewService(patients PatientRepository, observations ObservationRepository) *Service {
	return &Service{patients: patients, observations: observations}
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("first_name is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("last_name is required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) AddObservation(ctx context.Context, o *Observation) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if o.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return s.observations.Create(ctx, o)
}

func (s *Service) GetObservation(ctx context.Context, id uuid.UUID) (*Observation, error) {
	return s.observations.GetByID(ctx, id)
}

func (s *Service) ListObservations(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Observation, int, error) {
	return s.observations.ListByPatient(ctx, patientID, limit, offset)
}
