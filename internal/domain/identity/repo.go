package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	// ListActiveClinicians returns active users with a clinician-class
	// role (doctor or nurse). This is the notification recipient set.
	ListActiveClinicians(ctx context.Context) ([]*User, error)
}
