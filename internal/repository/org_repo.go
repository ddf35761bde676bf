package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgRepository interface {
	CreateDepartment(ctx context.Context, dept *model.Department) error
	ListDepartments(ctx context.Context) ([]model.Department, error)
	FindDepartmentByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
	CreatePosition(ctx context.Context, pos *model.Position) error
	ListPositions(ctx context.Context) ([]model.Position, error)
	FindPositionByID(ctx context.Context, id uuid.UUID) (*model.Position, error)
}

type orgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) OrgRepository {
	return &orgRepository{db: db}
}

func (r *orgRepository) CreateDepartment(ctx context.Context, dept *model.Department) error {
	return GetDB(ctx, r.db).Create(dept).Error
}

func (r *orgRepository) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *orgRepository) FindDepartmentByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	if err := GetDB(ctx, r.db).First(&dept, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *orgRepository) CreatePosition(ctx context.Context, pos *model.Position) error {
	return GetDB(ctx, r.db).Create(pos).Error
}

func (r *orgRepository) ListPositions(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	if err := GetDB(ctx, r.db).Preload("Department").Order("title ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *orgRepository) FindPositionByID(ctx context.Context, id uuid.UUID) (*model.Position, error) {
	var pos model.Position
	if err := GetDB(ctx, r.db).First(&pos, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pos, nil
}
