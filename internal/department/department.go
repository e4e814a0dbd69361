package department

import (
	"time"

	departmentDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/department"
)

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Manager     string    `json:"manager,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromDataModel(record *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Manager:     record.Manager,
		Phone:       record.Phone,
		Email:       record.Email,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Manager:     d.Manager,
		Phone:       d.Phone,
		Email:       d.Email,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
