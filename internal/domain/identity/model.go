package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role values for users of the system.
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleNurse  = "nurse"
)

// User maps to the app_user table. Doctors and nurses are the
// clinician-class roles that receive alert notifications.
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Email       *string   `db:"email" json:"email,omitempty"`
	PhoneNumber *string   `db:"phone_number" json:"phone_number,omitempty"`
	FullName    string    `db:"full_name" json:"full_name"`
	Role        string    `db:"role" json:"role"`
	Department  *string   `db:"department" json:"department,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IsClinician reports whether the user holds a clinician-class role.
func (u *User) IsClinician() bool {
	return u.Role == RoleDoctor || u.Role == RoleNurse
}
