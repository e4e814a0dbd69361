package auth

import (
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/auth"
	departmentDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/department"
	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
	"github.com/alshifa/hospital-management/internal/rbac"
)

// Repository is the gorm-backed credential store. Email uniqueness is
// enforced by the users.email unique index; duplicate inserts surface as
// ErrEmailTaken.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(email string) (*auth.Identity, error) {
	var record userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return r.toIdentity(&record), nil
}

func (r *Repository) GetByID(id string) (*auth.Identity, error) {
	var record userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return r.toIdentity(&record), nil
}

func (r *Repository) Create(identity *auth.Identity) error {
	record := toDataModel(identity)
	if err := r.db.Create(record).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateLastLogin(id string, when time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("last_login_at", when).Error
}

func (r *Repository) toIdentity(record *userDatamodel.User) *auth.Identity {
	identity := &auth.Identity{
		ID:           record.ID,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
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

	if record.DepartmentID != nil {
		var dept departmentDatamodel.Department
		if err := r.db.Where("id = ?", *record.DepartmentID).First(&dept).Error; err == nil {
			identity.DepartmentName = dept.Name
		}
	}

	return identity
}

func toDataModel(identity *auth.Identity) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           identity.ID,
		Email:        identity.Email,
		PasswordHash: identity.PasswordHash,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		PhoneNumber:  identity.PhoneNumber,
		Role:         string(identity.Role),
		IsActive:     identity.IsActive,
		DepartmentID: identity.DepartmentID,
		LastLoginAt:  identity.LastLoginAt,
		CreatedAt:    identity.CreatedAt,
		UpdatedAt:    identity.UpdatedAt,
	}
}

// isDuplicateKey matches both the translated gorm error and the raw driver
// messages, since sqlite-backed tests do not go through error translation.
func isDuplicateKey(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
