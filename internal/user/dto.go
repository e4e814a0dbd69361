package user

import (
	"fmt"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/core/common/validation"
	"github.com/alshifa/hospital-management/internal/rbac"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListQuery carries the staff-directory filters. Skip/Take paginate; Take is
// clamped to maxPageSize.
type ListQuery struct {
	Role         string
	DepartmentID string
	Skip         int
	Take         int
}

func (q *ListQuery) Normalize() {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Take <= 0 {
		q.Take = defaultPageSize
	}
	if q.Take > maxPageSize {
		q.Take = maxPageSize
	}
}

// CreateUserDTO is the admin-side account creation payload. Unlike
// self-registration it can preset the active flag.
type CreateUserDTO struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	PhoneNumber  string  `json:"phone_number,omitempty"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// UpdateUserDTO is a partial profile update. Role and active status have
// their own endpoints and are deliberately absent here.
type UpdateUserDTO struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type ChangeRoleDTO struct {
	Role string `json:"role"`
}

// AssignDepartmentDTO moves an account into a department. A null department
// id clears the assignment.
type AssignDepartmentDTO struct {
	DepartmentID *string `json:"department_id"`
}

type ListResponse struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
	Skip  int     `json:"skip"`
	Take  int     `json:"take"`
}

func validRole(field, role string) func(value interface{}) *errors.AppError {
	return func(value interface{}) *errors.AppError {
		if role != "" && !rbac.Role(role).IsValid() {
			return errors.NewValidationFieldError(field, fmt.Sprintf("unknown role %q", role), errors.ErrCodeInvalidRole)
		}
		return nil
	}
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("role", d.Role).Required().Custom(validRole("role", d.Role))
	return v.Validate()
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email()
	}
	if d.FirstName != nil {
		v.Field("first_name", *d.FirstName).Required().MaxLength(100)
	}
	if d.LastName != nil {
		v.Field("last_name", *d.LastName).Required().MaxLength(100)
	}
	return v.Validate()
}

func (d ChangeRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("role", d.Role).Required().Custom(validRole("role", d.Role))
	return v.Validate()
}
