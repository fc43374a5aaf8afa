package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func validRoles() map[string]bool {
	return map[string]bool{RoleAdmin: true, RoleDoctor: true, RoleNurse: true}
}

func (s *Service) Create(ctx context.Context, u *User) error {
	if u.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if !validRoles()[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return s.users.Create(ctx, u)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if !validRoles()[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return s.users.Update(ctx, u)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) ActiveClinicians(ctx context.Context) ([]*User, error) {
	return s.users.ListActiveClinicians(ctx)
}
