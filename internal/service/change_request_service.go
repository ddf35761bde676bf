package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/changecodec"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- DTOs ---

type SubmitChangeRequestDTO struct {
	EmployeeProfileID string      `json:"employee_profile_id" binding:"required"`
	Field             string      `json:"field" binding:"required"`
	NewValue          interface{} `json:"new_value" binding:"required"`
	Reason            string      `json:"reason"`
}

type RejectChangeRequestDTO struct {
	Reason string `json:"reason"`
}

type ChangeRequestResponse struct {
	RequestID         string  `json:"request_id"`
	EmployeeProfileID string  `json:"employee_profile_id"`
	EncodedChange     string  `json:"encoded_change"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	SubmittedAt       string  `json:"submitted_at"`
	ProcessedAt       *string `json:"processed_at"`
}

type ApprovalResult struct {
	FieldUpdated string      `json:"field_updated"`
	NewValue     interface{} `json:"new_value"`
}

// Notifier pushes workflow events to connected dashboards. Satisfied by
// the websocket hub; nil disables broadcasting.
type Notifier interface {
	BroadcastJSON(v interface{})
}

// --- Interface ---

// ChangeRequestService is the change-request workflow engine: it encodes
// and persists submissions, and drives the PENDING -> APPROVED/REJECTED
// state machine. A request transitions at most once; any failure during
// Approve leaves both the profile and the request untouched.
type ChangeRequestService interface {
	Submit(ctx context.Context, req SubmitChangeRequestDTO) (ChangeRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]ChangeRequestResponse, error)
	Approve(ctx context.Context, id string, reviewerID string) (ApprovalResult, error)
	Reject(ctx context.Context, id string, reviewerID string, reason string) (ChangeRequestResponse, error)
}

type changeRequestService struct {
	requests  repository.ChangeRequestRepository
	employees repository.EmployeeRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	notifier  Notifier
	log       *logrus.Logger
}

func NewChangeRequestService(
	requests repository.ChangeRequestRepository,
	employees repository.EmployeeRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
	log *logrus.Logger,
) ChangeRequestService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &changeRequestService{
		requests:  requests,
		employees: employees,
		audit:     audit,
		txManager: txManager,
		notifier:  notifier,
		log:       log,
	}
}

// --- Implementation ---

// Submit persists the proposal as a PENDING request. The field and value
// are stored encoded but not validated here: the allow-list check happens
// only at approval time, so an unsupported field is accepted now and
// rejected when someone tries to approve it.
func (s *changeRequestService) Submit(ctx context.Context, req SubmitChangeRequestDTO) (ChangeRequestResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeProfileID)
	if err != nil {
		return ChangeRequestResponse{}, fmt.Errorf("invalid employee_profile_id: %w", err)
	}

	encoded, err := changecodec.Encode(req.Field, req.NewValue)
	if err != nil {
		return ChangeRequestResponse{}, err
	}

	request := model.ChangeRequest{
		RequestID:         uuid.New(),
		EmployeeProfileID: employeeID,
		EncodedChange:     encoded,
		Reason:            req.Reason,
		Status:            model.ChangeRequestPending,
		SubmittedAt:       time.Now(),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requests.Create(txCtx, &request); createErr != nil {
			return fmt.Errorf("failed to create change request: %w", createErr)
		}
		return s.writeAudit(txCtx, nil, model.ActionSubmitChangeRequest, request.RequestID.String(), req.Field, map[string]interface{}{
			"employee_profile_id": req.EmployeeProfileID,
			"field":               req.Field,
		})
	})
	if err != nil {
		return ChangeRequestResponse{}, err
	}

	s.broadcast("change_request.submitted", request.RequestID.String(), request.EmployeeProfileID.String(), req.Field)
	return toChangeRequestResponse(request), nil
}

func (s *changeRequestService) ListByEmployee(ctx context.Context, employeeID string) ([]ChangeRequestResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}

	requests, err := s.requests.ListByEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch change requests: %w", err)
	}

	result := make([]ChangeRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toChangeRequestResponse(r))
	}
	return result, nil
}

// Approve decodes and validates the stored proposal, applies the
// single-field profile update and flips the request to APPROVED. Profile
// write and status transition run in one transaction: the repository's
// compare-and-set rejects a request that is no longer PENDING and rolls
// the profile write back with it.
func (s *changeRequestService) Approve(ctx context.Context, id string, reviewerID string) (ApprovalResult, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return ApprovalResult{}, fmt.Errorf("invalid change request id: %w", err)
	}

	var result ApprovalResult
	var employeeID uuid.UUID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.requests.FindByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load change request: %w", findErr)
		}
		if request.Status != model.ChangeRequestPending {
			return repository.ErrTransitionConflict
		}

		change, decodeErr := changecodec.Decode(request.EncodedChange)
		if decodeErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID.String(),
				"raw":        request.EncodedChange,
			}).Warn("change request payload could not be decoded")
			return decodeErr
		}

		update, validateErr := ValidateFieldChange(change.Field, change.NewValue)
		if validateErr != nil {
			return validateErr
		}

		if updateErr := s.employees.UpdateField(txCtx, request.EmployeeProfileID, update.Column, update.Value); updateErr != nil {
			if errors.Is(updateErr, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to update employee profile: %w", updateErr)
		}

		if markErr := s.requests.MarkApproved(txCtx, requestID, time.Now()); markErr != nil {
			return markErr
		}

		if auditErr := s.writeAudit(txCtx, parseReviewer(reviewerID), model.ActionApproveChangeRequest, requestID.String(), change.Field, map[string]interface{}{
			"employee_profile_id": request.EmployeeProfileID.String(),
			"field":               change.Field,
			"new_value":           change.NewValue,
		}); auditErr != nil {
			return auditErr
		}

		employeeID = request.EmployeeProfileID
		result = ApprovalResult{FieldUpdated: change.Field, NewValue: change.NewValue}
		return nil
	})
	if err != nil {
		return ApprovalResult{}, err
	}

	s.broadcast("change_request.approved", requestID.String(), employeeID.String(), result.FieldUpdated)
	return result, nil
}

// Reject flips a pending request to REJECTED and overwrites its reason
// with the reviewer's. The stored payload is not decoded on this path.
func (s *changeRequestService) Reject(ctx context.Context, id string, reviewerID string, reason string) (ChangeRequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return ChangeRequestResponse{}, fmt.Errorf("invalid change request id: %w", err)
	}

	var rejected *model.ChangeRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.requests.FindByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load change request: %w", findErr)
		}

		if markErr := s.requests.MarkRejected(txCtx, requestID, reason, time.Now()); markErr != nil {
			return markErr
		}

		if auditErr := s.writeAudit(txCtx, parseReviewer(reviewerID), model.ActionRejectChangeRequest, requestID.String(), request.EmployeeProfileID.String(), map[string]interface{}{
			"employee_profile_id": request.EmployeeProfileID.String(),
			"reason":              reason,
		}); auditErr != nil {
			return auditErr
		}

		reloaded, reloadErr := s.requests.FindByID(txCtx, requestID)
		if reloadErr != nil {
			return fmt.Errorf("failed to reload change request: %w", reloadErr)
		}
		rejected = reloaded
		return nil
	})
	if err != nil {
		return ChangeRequestResponse{}, err
	}

	s.broadcast("change_request.rejected", requestID.String(), rejected.EmployeeProfileID.String(), "")
	return toChangeRequestResponse(*rejected), nil
}

// --- Helpers ---

func (s *changeRequestService) writeAudit(ctx context.Context, userID *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	entry := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.audit.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *changeRequestService) broadcast(event, requestID, employeeID, field string) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastJSON(map[string]interface{}{
		"event":               event,
		"request_id":          requestID,
		"employee_profile_id": employeeID,
		"field":               field,
	})
}

// parseReviewer converts the JWT subject into an audit user reference.
// An unparsable subject is recorded as a null user rather than failing
// the transition.
func parseReviewer(reviewerID string) *uuid.UUID {
	if parsed, err := uuid.Parse(reviewerID); err == nil {
		return &parsed
	}
	return nil
}

func toChangeRequestResponse(r model.ChangeRequest) ChangeRequestResponse {
	resp := ChangeRequestResponse{
		RequestID:         r.RequestID.String(),
		EmployeeProfileID: r.EmployeeProfileID.String(),
		EncodedChange:     r.EncodedChange,
		Reason:            r.Reason,
		Status:            r.Status,
		SubmittedAt:       r.SubmittedAt.Format(time.RFC3339),
	}
	if r.ProcessedAt != nil {
		s := r.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &s
	}
	return resp
}
