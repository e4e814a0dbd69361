package postgres

import (
	stderrors "errors"

	"gorm.io/gorm"

	errors "github.com/alshifa/hospital-management/internal"
	departmentDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/department"
	"github.com/alshifa/hospital-management/internal/department"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll() ([]*departmentDatamodel.Department, error) {
	var records []*departmentDatamodel.Department
	err := r.db.Order("name ASC").Find(&records).Error
	return records, err
}

func (r *DepartmentRepository) GetByID(id string) (*departmentDatamodel.Department, error) {
	var record departmentDatamodel.Department
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *DepartmentRepository) GetByName(name string) (*departmentDatamodel.Department, error) {
	var record departmentDatamodel.Department
	if err := r.db.Where("name = ?", name).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *DepartmentRepository) Create(record *departmentDatamodel.Department) error {
	return r.db.Create(record).Error
}

func (r *DepartmentRepository) Update(record *departmentDatamodel.Department) error {
	return r.db.Save(record).Error
}
