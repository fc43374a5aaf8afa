package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users   map[uuid.UUID]*User
	created []*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	m.created = append(m.created, u)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, context.Canceled
	}
	return u, nil
}

func (m *mockUserRepo) Update(ctx context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var out []*User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) ListActiveClinicians(ctx context.Context) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		if u.IsActive && u.IsClinician() {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockUserRepo())

	err := svc.Create(context.Background(), &User{Role: RoleDoctor})
	if err == nil {
		t.Fatal("expected error for missing full_name")
	}

	err = svc.Create(context.Background(), &User{FullName: "Dr. Chen", Role: "surgeon"})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}

	err = svc.Create(context.Background(), &User{FullName: "Dr. Chen", Role: RoleDoctor, IsActive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActiveCliniciansExcludesAdminsAndInactive(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	ctx := context.Background()

	seed := []*User{
		{FullName: "Dr. Chen", Role: RoleDoctor, IsActive: true},
		{FullName: "Nurse Okafor", Role: RoleNurse, IsActive: true},
		{FullName: "Dr. Idle", Role: RoleDoctor, IsActive: false},
		{FullName: "Sys Admin", Role: RoleAdmin, IsActive: true},
	}
	for _, u := range seed {
		if err := svc.Create(ctx, u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.ActiveClinicians(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 clinicians, got %d", len(got))
	}
	for _, u := range got {
		if !u.IsClinician() || !u.IsActive {
			t.Errorf("unexpected recipient %s (%s, active=%v)", u.FullName, u.Role, u.IsActive)
		}
	}
}
