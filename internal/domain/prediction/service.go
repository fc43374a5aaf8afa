package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/alert"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/identity"
	"github.com/sepsiswatch/sepsiswatch/internal/domain/patient"
	"github.com/sepsiswatch/sepsiswatch/internal/ml/explain"
	"github.com/sepsiswatch/sepsiswatch/internal/ml/feature"
	"github.com/sepsiswatch/sepsiswatch/internal/ml/model"
	"github.com/sepsiswatch/sepsiswatch/internal/platform/notification"
)

// ErrNoObservations distinguishes "insufficient data" from other run
// failures so the transport layer can report it as such.
var ErrNoObservations = errors.New("no clinical data available for prediction")

var ErrPatientNotFound = errors.New("patient not found")

// observationFetchLimit bounds how much history one run loads. The
// trend window only looks 24h back from the latest reading, so this is
// far more than any extraction needs.
const observationFetchLimit = 500

// Dispatcher is the notification fan-out step. Implemented by
// notification.Dispatcher; declared here so tests can substitute it.
type Dispatcher interface {
	Notify(ctx context.Context, a *alert.Alert, p *patient.Patient, recipients []*identity.User) notification.Outcome
}

// Service runs the full risk pipeline for a patient: load data, extract
// features, score, explain, persist, and raise alerts.
type Service struct {
	patients     patient.PatientRepository
	observations patient.ObservationRepository
	predictions  Repository
	alerts       *alert.Service
	users        identity.UserRepository
	model        *model.Model
	explainer    *explain.Explainer
	dispatcher   Dispatcher
	logger       zerolog.Logger
}

func NewService(
	patients patient.PatientRepository,
	observations patient.ObservationRepository,
	predictions Repository,
	alerts *alert.Service,
	users identity.UserRepository,
	m *model.Model,
	explainer *explain.Explainer,
	dispatcher Dispatcher,
	logger zerolog.Logger,
) *Service {
	return &Service{
		patients:     patients,
		observations: observations,
		predictions:  predictions,
		alerts:       alerts,
		users:        users,
		model:        m,
		explainer:    explainer,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// RunForPatient executes one pipeline run. It returns ErrNoObservations
// without touching the model when the patient has no clinical data.
// Alert and notification failures are logged and never roll back the
// persisted prediction.
func (s *Service) RunForPatient(ctx context.Context, patientID uuid.UUID, userID *uuid.UUID) (*Result, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, patientID)
	}

	observations, _, err := s.observations.ListByPatient(ctx, patientID, observationFetchLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("loading observations: %w", err)
	}
	if len(observations) == 0 {
		s.logger.Warn().Str("patient_id", patientID.String()).Msg("no clinical data available")
		return nil, ErrNoObservations
	}

	features := feature.Extract(observations)
	row, _ := s.model.Prepare(features)
	scored := s.model.Predict(features)
	attribution := s.explainer.Explain(row)

	pred := &Prediction{
		PatientID:    patientID,
		UserID:       userID,
		Probability:  scored.Probability,
		IsSepsisRisk: scored.IsSepsisRisk,
		FeaturesUsed: scored.FeaturesUsed,
		ModelVersion: scored.ModelVersion,
		Explanation:  attribution,
	}
	if err := s.predictions.Create(ctx, pred); err != nil {
		return nil, fmt.Errorf("saving prediction: %w", err)
	}
	s.logger.Info().
		Str("prediction_id", pred.ID.String()).
		Str("patient_id", patientID.String()).
		Float64("probability", pred.Probability).
		Bool("is_sepsis_risk", pred.IsSepsisRisk).
		Msg("created sepsis prediction")

	if pred.IsSepsisRisk {
		s.raiseAlert(ctx, pred, p)
	}

	return &Result{
		PredictionID: pred.ID,
		Patient:      p,
		Prediction:   pred,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// raiseAlert synthesizes and persists an alert for a risk-flagged
// prediction, then fans it out. Each step's failure is absorbed here.
func (s *Service) raiseAlert(ctx context.Context, pred *Prediction, p *patient.Patient) {
	details := alert.Synthesize(pred.Probability, pred.IsSepsisRisk, p.FullName(), pred.FeaturesUsed, pred.Explanation)

	a, err := s.alerts.CreateFromDetails(ctx, pred.PatientID, pred.ID, details)
	if err != nil {
		s.logger.Error().Err(err).Str("prediction_id", pred.ID.String()).Msg("failed to create alert")
		return
	}
	s.logger.Info().Str("alert_id", a.ID.String()).Str("patient_id", pred.PatientID.String()).Msg("created alert")

	recipients, err := s.users.ListActiveClinicians(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("alert_id", a.ID.String()).Msg("failed to resolve alert recipients")
		return
	}
	if len(recipients) == 0 {
		s.logger.Warn().Str("alert_id", a.ID.String()).Msg("no users to notify about alert")
		return
	}

	outcome := s.dispatcher.Notify(ctx, a, p, recipients)
	s.logger.Info().
		Str("alert_id", a.ID.String()).
		Interface("outcome", outcome).
		Msg("notifications sent for alert")
}

// RunForPatients runs the pipeline for each patient in turn and
// aggregates the outcomes. A failed patient is recorded and the batch
// continues.
func (s *Service) RunForPatients(ctx context.Context, patientIDs []uuid.UUID, userID *uuid.UUID) *BatchResult {
	results := &BatchResult{
		Successful: []BatchSuccess{},
		Failed:     []BatchFailure{},
		Total:      len(patientIDs),
	}
	for _, patientID := range patientIDs {
		res, err := s.RunForPatient(ctx, patientID, userID)
		if err != nil {
			s.logger.Error().Err(err).Str("patient_id", patientID.String()).Msg("batch prediction failed for patient")
			results.Failed = append(results.Failed, BatchFailure{PatientID: patientID, Error: err.Error()})
			results.FailureCount++
			continue
		}
		results.Successful = append(results.Successful, BatchSuccess{
			PatientID:    patientID,
			PredictionID: res.PredictionID,
			IsSepsisRisk: res.Prediction.IsSepsisRisk,
			Probability:  res.Prediction.Probability,
		})
		results.SuccessCount++
	}
	return results
}

// NotifyAlert re-sends notifications for an existing alert, used by the
// manual resend endpoint.
func (s *Service) NotifyAlert(ctx context.Context, alertID uuid.UUID) (*notification.Outcome, error) {
	a, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, a.PatientID)
	}
	recipients, err := s.users.ListActiveClinicians(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving recipients: %w", err)
	}
	outcome := s.dispatcher.Notify(ctx, a, p, recipients)
	return &outcome, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prediction, error) {
	return s.predictions.GetByID(ctx, id)
}

func (s *Service) History(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error) {
	return s.predictions.ListByPatient(ctx, patientID, limit, offset)
}
