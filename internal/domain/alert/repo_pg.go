package alert

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const alertCols = `id, patient_id, prediction_id, alert_type, severity, status, message, created_at, acknowledged_at, acknowledged_by`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.PatientID, &a.PredictionID, &a.AlertType, &a.Severity,
		&a.Status, &a.Message, &a.CreatedAt, &a.AcknowledgedAt, &a.AcknowledgedBy)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO alert (id, patient_id, prediction_id, alert_type, severity, status, message)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		a.ID, a.PatientID, a.PredictionID, a.AlertType, a.Severity, a.Status, a.Message,
	).Scan(&a.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return scanAlert(r.pool.QueryRow(ctx, `SELECT `+alertCols+` FROM alert WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Alert, int, error) {
	if status != "" {
		var total int
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alert WHERE status = $1`, status).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err := r.pool.Query(ctx, `SELECT `+alertCols+` FROM alert
			WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			status, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		defer rows.Close()
		items, err := collectAlerts(rows)
		return items, total, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alert`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+alertCols+` FROM alert
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAlerts(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Alert, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alert WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+alertCols+` FROM alert
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAlerts(rows)
	return items, total, err
}

func (r *repoPG) Update(ctx context.Context, a *Alert) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE alert SET status=$2, acknowledged_at=$3, acknowledged_by=$4
		WHERE id = $1`,
		a.ID, a.Status, a.AcknowledgedAt, a.AcknowledgedBy)
	return err
}

func collectAlerts(rows pgx.Rows) ([]*Alert, error) {
	var items []*Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
