package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreatePositionRequest struct {
	Title        string `json:"title" binding:"required"`
	DepartmentID string `json:"department_id"`
}

// OrgService maintains the departments and positions that change requests
// may reference. Thin CRUD, no workflow.
type OrgService interface {
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)
	CreatePosition(ctx context.Context, req CreatePositionRequest) (*model.Position, error)
	ListPositions(ctx context.Context) ([]model.Position, error)
}

type orgService struct {
	repo repository.OrgRepository
}

func NewOrgService(repo repository.OrgRepository) OrgService {
	return &orgService{repo: repo}
}

func (s *orgService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func (s *orgService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.repo.ListDepartments(ctx)
}

func (s *orgService) CreatePosition(ctx context.Context, req CreatePositionRequest) (*model.Position, error) {
	pos := &model.Position{Title: req.Title}
	if req.DepartmentID != "" {
		parsed, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid department_id: %w", err)
		}
		if _, err := s.repo.FindDepartmentByID(ctx, parsed); err != nil {
			return nil, fmt.Errorf("department not found: %w", err)
		}
		pos.DepartmentID = &parsed
	}
	if err := s.repo.CreatePosition(ctx, pos); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return pos, nil
}

func (s *orgService) ListPositions(ctx context.Context) ([]model.Position, error) {
	return s.repo.ListPositions(ctx)
}
