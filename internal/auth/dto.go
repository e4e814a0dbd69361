package auth

import (
	"fmt"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/core/common/validation"
	"github.com/alshifa/hospital-management/internal/rbac"
)

// LoginDTO is the transport shape for login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterDTO is the transport shape for self-registration. Role is part of
// the request because the original system registers staff through the same
// endpoint; it must still name a valid role.
type RegisterDTO struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	PhoneNumber  string  `json:"phone_number,omitempty"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id,omitempty"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("role", d.Role).Required().Custom(func(value interface{}) *errors.AppError {
		role, _ := value.(string)
		if role != "" && !rbac.Role(role).IsValid() {
			return errors.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", role), errors.ErrCodeInvalidRole)
		}
		return nil
	})
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}
