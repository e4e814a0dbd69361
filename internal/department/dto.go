package department

import (
	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Manager     string `json:"manager,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

type UpdateDepartmentDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Manager     *string `json:"manager,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
}

func (d CreateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(150)
	if d.Email != "" {
		v.Field("email", d.Email).Email()
	}
	return v.Validate()
}

func (d UpdateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(150)
	}
	if d.Email != nil && *d.Email != "" {
		v.Field("email", *d.Email).Email()
	}
	return v.Validate()
}
