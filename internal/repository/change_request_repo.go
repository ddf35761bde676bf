package repository

import (
	"context"
	"errors"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTransitionConflict is returned by MarkApproved/MarkRejected when the
// request is no longer PENDING. The status check and the write happen in a
// single conditional UPDATE, so two concurrent reviewers can never both
// transition the same request.
var ErrTransitionConflict = errors.New("change request is not pending")

type ChangeRequestRepository interface {
	Create(ctx context.Context, req *model.ChangeRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ChangeRequest, error)
	MarkApproved(ctx context.Context, id uuid.UUID, processedAt time.Time) error
	MarkRejected(ctx context.Context, id uuid.UUID, reason string, processedAt time.Time) error
}

type changeRequestRepository struct {
	db *gorm.DB
}

func NewChangeRequestRepository(db *gorm.DB) ChangeRequestRepository {
	return &changeRequestRepository{db: db}
}

func (r *changeRequestRepository) Create(ctx context.Context, req *model.ChangeRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *changeRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	var req model.ChangeRequest
	if err := GetDB(ctx, r.db).First(&req, "request_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *changeRequestRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ChangeRequest, error) {
	var requests []model.ChangeRequest
	if err := GetDB(ctx, r.db).
		Where("employee_profile_id = ?", employeeID).
		Order("submitted_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *changeRequestRepository) MarkApproved(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	return r.transition(ctx, id, map[string]interface{}{
		"status":       model.ChangeRequestApproved,
		"processed_at": processedAt,
	})
}

func (r *changeRequestRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string, processedAt time.Time) error {
	return r.transition(ctx, id, map[string]interface{}{
		"status":       model.ChangeRequestRejected,
		"reason":       reason,
		"processed_at": processedAt,
	})
}

// transition performs the compare-and-set out of PENDING. Zero rows
// affected means another reviewer got there first (or the id is gone).
func (r *changeRequestRepository) transition(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.ChangeRequest{}).
		Where("request_id = ? AND status = ?", id, model.ChangeRequestPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransitionConflict
	}
	return nil
}
