package prediction

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sepsiswatch/sepsiswatch/internal/ml/explain"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const predictionCols = `id, patient_id, user_id, probability, is_sepsis_risk, features_used, model_version, explanation, timestamp`

func scanPrediction(row pgx.Row) (*Prediction, error) {
	var (
		p           Prediction
		features    []byte
		explanation []byte
	)
	err := row.Scan(&p.ID, &p.PatientID, &p.UserID, &p.Probability, &p.IsSepsisRisk,
		&features, &p.ModelVersion, &explanation, &p.Timestamp)
	if err != nil {
		return nil, err
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.FeaturesUsed); err != nil {
			return nil, err
		}
	}
	if len(explanation) > 0 {
		var attr explain.Attribution
		if err := json.Unmarshal(explanation, &attr); err != nil {
			return nil, err
		}
		p.Explanation = &attr
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Prediction) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	features, err := json.Marshal(p.FeaturesUsed)
	if err != nil {
		return err
	}
	var explanation []byte
	if p.Explanation != nil {
		explanation, err = json.Marshal(p.Explanation)
		if err != nil {
			return err
		}
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO sepsis_prediction (id, patient_id, user_id, probability, is_sepsis_risk, features_used, model_version, explanation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING timestamp`,
		p.ID, p.PatientID, p.UserID, p.Probability, p.IsSepsisRisk, features, p.ModelVersion, explanation,
	).Scan(&p.Timestamp)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prediction, error) {
	return scanPrediction(r.pool.QueryRow(ctx, `SELECT `+predictionCols+` FROM sepsis_prediction WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prediction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sepsis_prediction WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+predictionCols+` FROM sepsis_prediction
		WHERE patient_id = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
