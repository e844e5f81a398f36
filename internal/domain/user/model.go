package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "admin"
	RoleDocteur    = "docteur"
	RoleSecretaire = "secretaire"
)

// User is a staff account. Passwords are stored as typed, matching the
// office's original records; hashing them is a known follow-up once
// the existing accounts can be migrated.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Public returns a copy safe to serialize in responses.
func (u *User) Public() *User {
	cp := *u
	cp.Password = ""
	return &cp
}

// Patch carries a partial update; nil fields keep the stored value.
// Password changes go through the dedicated change-password operation.
type Patch struct {
	Username  *string `json:"username"`
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	Specialty *string `json:"specialty"`
}

func (u *User) apply(patch Patch) {
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Specialty != nil {
		u.Specialty = *patch.Specialty
	}
}

// BuiltinRole reports whether role is one of the fixed roles; anything
// else is a custom role cached in the saved-role list.
func BuiltinRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDocteur, RoleSecretaire:
		return true
	}
	return false
}
