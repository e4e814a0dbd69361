package user

import (
	"time"

	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
	"github.com/alshifa/hospital-management/internal/rbac"
)

// User is the staff-directory projection of an account. The password hash
// stays in the datamodel and never appears here.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Role         rbac.Role  `json:"role"`
	IsActive     bool       `json:"is_active"`
	DepartmentID *string    `json:"department_id,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func FromDataModel(record *userDatamodel.User) *User {
	return &User{
		ID:           record.ID,
		Email:        record.Email,
		FirstName:    record.FirstName,
		LastName:     record.LastName,
		PhoneNumber:  record.PhoneNumber,
		Role:         rbac.Role(record.Role),
		IsActive:     record.IsActive,
		DepartmentID: record.DepartmentID,
		LastLoginAt:  record.LastLoginAt,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PhoneNumber:  u.PhoneNumber,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		DepartmentID: u.DepartmentID,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
