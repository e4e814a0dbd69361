package postgres

import (
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	errors "github.com/alshifa/hospital-management/internal"
	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
	"github.com/alshifa/hospital-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(q user.ListQuery) ([]*userDatamodel.User, int64, error) {
	tx := r.db.Model(&userDatamodel.User{})
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.DepartmentID != "" {
		tx = tx.Where("department_id = ?", q.DepartmentID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*userDatamodel.User
	err := tx.Order("created_at DESC").
		Offset(q.Skip).
		Limit(q.Take).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *UserRepository) GetByID(id string) (*userDatamodel.User, error) {
	var record userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *UserRepository) Create(record *userDatamodel.User) error {
	if err := r.db.Create(record).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(record *userDatamodel.User) error {
	if err := r.db.Save(record).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
