package feedback

import (
	"time"

	"github.com/google/uuid"
)

// Verdicts a clinician can assign to a prediction.
const (
	TypeCorrect       = "correct"
	TypeFalsePositive = "false_positive"
	TypeFalseNegative = "false_negative"
	TypeUnsure        = "unsure"
)

// Feedback maps to the feedback table: one clinician verdict on one
// prediction. UserName is joined in from app_user for responses.
type Feedback struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PredictionID uuid.UUID `db:"prediction_id" json:"prediction_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	FeedbackType string    `db:"feedback_type" json:"feedback_type"`
	Comments     *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UserName     *string   `db:"user_name" json:"user_name,omitempty"`
}
