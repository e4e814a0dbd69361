package department

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/alshifa/hospital-management/internal"
	departmentDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetAll() ([]*departmentDatamodel.Department, error)
	GetByID(id string) (*departmentDatamodel.Department, error)
	GetByName(name string) (*departmentDatamodel.Department, error)
	Create(record *departmentDatamodel.Department) error
	Update(record *departmentDatamodel.Department) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAll returns active departments only; deactivated ones stay queryable by
// id for historical records.
func (s *Service) GetAll() ([]*Department, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, err
	}

	departments := make([]*Department, 0, len(records))
	for _, record := range records {
		if record.IsActive {
			departments = append(departments, FromDataModel(record))
		}
	}

	return departments, nil
}

func (s *Service) GetByID(id string) (*Department, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check department name", "error", err)
		return nil, errors.NewInternalError("failed to create department", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("department name already in use", errors.ErrCodeDuplicate)
	}

	now := time.Now()
	record := &departmentDatamodel.Department{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Manager:     dto.Manager,
		Phone:       dto.Phone,
		Email:       dto.Email,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create department", "error", err)
		return nil, errors.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", record.ID, "name", record.Name)
	return FromDataModel(record), nil
}

func (s *Service) Update(id string, dto UpdateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.Description != nil {
		record.Description = *dto.Description
	}
	if dto.Manager != nil {
		record.Manager = *dto.Manager
	}
	if dto.Phone != nil {
		record.Phone = *dto.Phone
	}
	if dto.Email != nil {
		record.Email = *dto.Email
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update department", err)
	}

	return FromDataModel(record), nil
}

// Deactivate soft-deletes a department. Staff assignments keep their
// department id; the directory simply stops listing it.
func (s *Service) Deactivate(id string) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	record.IsActive = false
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate department", "department_id", id, "error", err)
		return errors.NewInternalError("failed to deactivate department", err)
	}

	s.logger.Info("department deactivated", "department_id", id)
	return nil
}

// DepartmentExists reports whether an active department with the given id
// exists. Used by the user module to validate assignments.
func (s *Service) DepartmentExists(id string) (bool, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return false, nil
		}
		return false, err
	}
	return record.IsActive, nil
}
