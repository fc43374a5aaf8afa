package feedback

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const feedbackCols = `f.id, f.prediction_id, f.user_id, f.feedback_type, f.comments, f.created_at, u.full_name`

func scanFeedback(row pgx.Row) (*Feedback, error) {
	var f Feedback
	err := row.Scan(&f.ID, &f.PredictionID, &f.UserID, &f.FeedbackType,
		&f.Comments, &f.CreatedAt, &f.UserName)
	return &f, err
}

func collectFeedback(rows pgx.Rows) ([]*Feedback, error) {
	defer rows.Close()
	var out []*Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, f *Feedback) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO feedback (id, prediction_id, user_id, feedback_type, comments)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		f.ID, f.PredictionID, f.UserID, f.FeedbackType, f.Comments,
	).Scan(&f.CreatedAt)
}

func (r *repoPG) ListByPrediction(ctx context.Context, predictionID uuid.UUID) ([]*Feedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+feedbackCols+` FROM feedback f
		LEFT JOIN app_user u ON u.id = f.user_id
		WHERE f.prediction_id = $1
		ORDER BY f.created_at DESC`, predictionID)
	if err != nil {
		return nil, err
	}
	return collectFeedback(rows)
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+feedbackCols+` FROM feedback f
		LEFT JOIN app_user u ON u.id = f.user_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collectFeedback(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM feedback f
		JOIN sepsis_prediction p ON p.id = f.prediction_id
		WHERE p.patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+feedbackCols+` FROM feedback f
		JOIN sepsis_prediction p ON p.id = f.prediction_id
		LEFT JOIN app_user u ON u.id = f.user_id
		WHERE p.patient_id = $1
		ORDER BY f.created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := collectFeedback(rows)
	return items, total, err
}
