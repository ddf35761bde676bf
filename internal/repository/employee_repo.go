package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.EmployeeProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EmployeeProfile, error)
	List(ctx context.Context, page, limit int) ([]model.EmployeeProfile, int64, error)
	Update(ctx context.Context, employee *model.EmployeeProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateField writes exactly one column. The change-request workflow
	// never requests compound updates.
	UpdateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error
	// UpdateFields writes the allow-listed self-service columns in one call.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.EmployeeProfile) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EmployeeProfile, error) {
	var employee model.EmployeeProfile
	if err := GetDB(ctx, r.db).
		Preload("PrimaryPosition").
		Preload("PrimaryDepartment").
		First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int) ([]model.EmployeeProfile, int64, error) {
	var employees []model.EmployeeProfile
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.EmployeeProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("PrimaryPosition").
		Preload("PrimaryDepartment").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.EmployeeProfile) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Delete(&model.EmployeeProfile{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) UpdateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.EmployeeProfile{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := GetDB(ctx, r.db).Model(&model.EmployeeProfile{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
