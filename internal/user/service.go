package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/auth"
	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	List(q ListQuery) ([]*userDatamodel.User, int64, error)
	GetByID(id string) (*userDatamodel.User, error)
	Create(record *userDatamodel.User) error
	Update(record *userDatamodel.User) error
}

// DepartmentCheckerAPI is the narrow slice of the department module the user
// service needs for validating assignments.
type DepartmentCheckerAPI interface {
	DepartmentExists(id string) (bool, error)
}

type Service struct {
	repo        RepositoryAPI
	departments DepartmentCheckerAPI
	logger      *slog.Logger
	bcryptCost  int
}

func NewService(repo RepositoryAPI, departments DepartmentCheckerAPI, logger *slog.Logger, bcryptCost int) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		logger:      logger,
		bcryptCost:  bcryptCost,
	}
}

func (s *Service) List(q ListQuery) (*ListResponse, error) {
	q.Normalize()

	records, total, err := s.repo.List(q)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	users := make([]*User, 0, len(records))
	for _, record := range records {
		users = append(users, FromDataModel(record))
	}

	return &ListResponse{
		Users: users,
		Total: total,
		Skip:  q.Skip,
		Take:  q.Take,
	}, nil
}

func (s *Service) GetByID(id string) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkDepartment(dto.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	now := time.Now()
	record := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PhoneNumber:  dto.PhoneNumber,
		Role:         dto.Role,
		IsActive:     isActive,
		DepartmentID: dto.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(record); err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "role", record.Role)
	return FromDataModel(record), nil
}

func (s *Service) Update(id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil {
		record.Email = *dto.Email
	}
	if dto.FirstName != nil {
		record.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		record.LastName = *dto.LastName
	}
	if dto.PhoneNumber != nil {
		record.PhoneNumber = *dto.PhoneNumber
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update user", err)
	}

	return FromDataModel(record), nil
}

// Deactivate is the delete operation: accounts are never removed, only
// switched off so existing refresh tokens die at their next rotation.
func (s *Service) Deactivate(id string) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	record.IsActive = false
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate user", "user_id", id, "error", err)
		return errors.NewInternalError("failed to deactivate user", err)
	}

	s.logger.Info("user deactivated", "user_id", id)
	return nil
}

func (s *Service) ChangeRole(id string, dto ChangeRoleDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	previous := record.Role
	record.Role = dto.Role
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to change role", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to change role", err)
	}

	s.logger.Info("user role changed", "user_id", id, "from", previous, "to", record.Role)
	return FromDataModel(record), nil
}

func (s *Service) AssignDepartment(id string, dto AssignDepartmentDTO) (*User, error) {
	if err := s.checkDepartment(dto.DepartmentID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	record.DepartmentID = dto.DepartmentID
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to assign department", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to assign department", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) checkDepartment(departmentID *string) error {
	if departmentID == nil || *departmentID == "" {
		return nil
	}
	if s.departments == nil {
		return nil
	}

	exists, err := s.departments.DepartmentExists(*departmentID)
	if err != nil {
		s.logger.Error("failed to look up department", "department_id", *departmentID, "error", err)
		return errors.NewInternalError("failed to verify department", err)
	}
	if !exists {
		return errors.NewValidationFieldError("department_id", "department does not exist", errors.ErrCodeInvalidInput)
	}
	return nil
}
