package service

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/changecodec"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeChangeRequestRepo struct {
	requests map[uuid.UUID]*model.ChangeRequest
}

func newFakeChangeRequestRepo() *fakeChangeRequestRepo {
	return &fakeChangeRequestRepo{requests: make(map[uuid.UUID]*model.ChangeRequest)}
}

func (r *fakeChangeRequestRepo) Create(ctx context.Context, req *model.ChangeRequest) error {
	stored := *req
	r.requests[req.RequestID] = &stored
	return nil
}

func (r *fakeChangeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	detached := *req
	return &detached, nil
}

func (r *fakeChangeRequestRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ChangeRequest, error) {
	var result []model.ChangeRequest
	for _, req := range r.requests {
		if req.EmployeeProfileID == employeeID {
			result = append(result, *req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result, nil
}

func (r *fakeChangeRequestRepo) MarkApproved(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	return r.transition(id, model.ChangeRequestApproved, nil, processedAt)
}

func (r *fakeChangeRequestRepo) MarkRejected(ctx context.Context, id uuid.UUID, reason string, processedAt time.Time) error {
	return r.transition(id, model.ChangeRequestRejected, &reason, processedAt)
}

// Mirrors the conditional UPDATE of the real repository: zero matched
// rows (missing id or non-pending status) is a transition conflict.
func (r *fakeChangeRequestRepo) transition(id uuid.UUID, status string, reason *string, processedAt time.Time) error {
	req, ok := r.requests[id]
	if !ok || req.Status != model.ChangeRequestPending {
		return repository.ErrTransitionConflict
	}
	req.Status = status
	req.ProcessedAt = &processedAt
	if reason != nil {
		req.Reason = *reason
	}
	return nil
}

type fieldWrite struct {
	id     uuid.UUID
	column string
	value  interface{}
}

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*model.EmployeeProfile
	writes    []fieldWrite
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*model.EmployeeProfile)}
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, e *model.EmployeeProfile) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	stored := *e
	r.employees[e.ID] = &stored
	return nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EmployeeProfile, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	detached := *e
	return &detached, nil
}

func (r *fakeEmployeeRepo) List(ctx context.Context, page, limit int) ([]model.EmployeeProfile, int64, error) {
	var result []model.EmployeeProfile
	for _, e := range r.employees {
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, e *model.EmployeeProfile) error {
	if _, ok := r.employees[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *e
	r.employees[e.ID] = &stored
	return nil
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.employees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) UpdateField(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	e, ok := r.employees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.writes = append(r.writes, fieldWrite{id: id, column: column, value: value})
	switch column {
	case "first_name":
		e.FirstName = value.(string)
	case "last_name":
		e.LastName = value.(string)
	case "national_id":
		e.NationalID = value.(string)
	case "contract_type":
		e.ContractType = value.(string)
	case "work_type":
		e.WorkType = value.(string)
	}
	return nil
}

func (r *fakeEmployeeRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if _, ok := r.employees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		r.writes = append(r.writes, fieldWrite{id: id, column: column, value: value})
	}
	return nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

// --- Fixture ---

type workflowFixture struct {
	service   ChangeRequestService
	requests  *fakeChangeRequestRepo
	employees *fakeEmployeeRepo
	audit     *fakeAuditRepo
}

func newWorkflowFixture(t *testing.T) (*workflowFixture, uuid.UUID) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	requests := newFakeChangeRequestRepo()
	employees := newFakeEmployeeRepo()
	audit := &fakeAuditRepo{}

	employee := &model.EmployeeProfile{FirstName: "Omar", LastName: "Haddad", NationalID: "11111111111111"}
	require.NoError(t, employees.Create(context.Background(), employee))

	svc := NewChangeRequestService(requests, employees, audit, fakeTxManager{}, nil, log)
	return &workflowFixture{service: svc, requests: requests, employees: employees, audit: audit}, employee.ID
}

func (f *workflowFixture) submit(t *testing.T, employeeID uuid.UUID, field string, newValue interface{}) ChangeRequestResponse {
	t.Helper()
	resp, err := f.service.Submit(context.Background(), SubmitChangeRequestDTO{
		EmployeeProfileID: employeeID.String(),
		Field:             field,
		NewValue:          newValue,
		Reason:            "please update",
	})
	require.NoError(t, err)
	return resp
}

func (f *workflowFixture) seedRequest(t *testing.T, employeeID uuid.UUID, encoded string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.requests.Create(context.Background(), &model.ChangeRequest{
		RequestID:         id,
		EmployeeProfileID: employeeID,
		EncodedChange:     encoded,
		Status:            model.ChangeRequestPending,
		SubmittedAt:       time.Now(),
	}))
	return id
}

// --- Tests ---

func TestSubmitCreatesPendingRequest(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)

	resp := f.submit(t, employeeID, "firstName", "Ana")

	assert.Equal(t, model.ChangeRequestPending, resp.Status)
	assert.Equal(t, "please update", resp.Reason)
	assert.Nil(t, resp.ProcessedAt)
	assert.NotEmpty(t, resp.SubmittedAt)

	change, err := changecodec.Decode(resp.EncodedChange)
	require.NoError(t, err)
	assert.Equal(t, "firstName", change.Field)
	assert.Equal(t, "Ana", change.NewValue)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, model.ActionSubmitChangeRequest, f.audit.entries[0].Action)
}

func TestSubmitDoesNotValidateField(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)

	// An unsupported field is accepted at submission; it only fails when
	// a reviewer tries to approve it.
	resp := f.submit(t, employeeID, "unknownThing", "whatever")
	assert.Equal(t, model.ChangeRequestPending, resp.Status)
}

func TestApproveAppliesSingleFieldUpdate(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "nationalId", "12345678901234")

	result, err := f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, "nationalId", result.FieldUpdated)
	assert.Equal(t, "12345678901234", result.NewValue)

	employee, err := f.employees.FindByID(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234", employee.NationalID)

	require.Len(t, f.employees.writes, 1)
	assert.Equal(t, "national_id", f.employees.writes[0].column)

	stored, err := f.requests.FindByID(context.Background(), uuid.MustParse(resp.RequestID))
	require.NoError(t, err)
	assert.Equal(t, model.ChangeRequestApproved, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestApproveTrimsNameFields(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "firstName", "  Ana  ")

	_, err := f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	require.NoError(t, err)

	employee, err := f.employees.FindByID(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", employee.FirstName)
}

func TestApproveDecodesMangledPayload(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	id := f.seedRequest(t, employeeID, "{\n \"field\" : \"firstName\",\n \"newValue\" : \"Ana\" \n}")

	result, err := f.service.Approve(context.Background(), id.String(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, "firstName", result.FieldUpdated)

	employee, err := f.employees.FindByID(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", employee.FirstName)
}

func TestApproveInvalidNationalIDLeavesRequestPending(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "nationalId", "1234")

	_, err := f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	assert.ErrorIs(t, err, ErrInvalidNationalID)

	stored, findErr := f.requests.FindByID(context.Background(), uuid.MustParse(resp.RequestID))
	require.NoError(t, findErr)
	assert.Equal(t, model.ChangeRequestPending, stored.Status)
	assert.Nil(t, stored.ProcessedAt)

	employee, findErr := f.employees.FindByID(context.Background(), employeeID)
	require.NoError(t, findErr)
	assert.Equal(t, "11111111111111", employee.NationalID)
	assert.Empty(t, f.employees.writes)
}

func TestApproveUnsupportedFieldLeavesRequestPending(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "unknownThing", "whatever")

	_, err := f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	assert.ErrorIs(t, err, ErrUnsupportedField)

	stored, findErr := f.requests.FindByID(context.Background(), uuid.MustParse(resp.RequestID))
	require.NoError(t, findErr)
	assert.Equal(t, model.ChangeRequestPending, stored.Status)
	assert.Empty(t, f.employees.writes)
}

func TestApproveMalformedPayloadLeavesRequestPending(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	id := f.seedRequest(t, employeeID, "{{{ not json")

	_, err := f.service.Approve(context.Background(), id.String(), uuid.NewString())
	assert.ErrorIs(t, err, changecodec.ErrMalformedPayload)

	stored, findErr := f.requests.FindByID(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, model.ChangeRequestPending, stored.Status)
	assert.Empty(t, f.employees.writes)
}

func TestApproveMissingRequest(t *testing.T) {
	f, _ := newWorkflowFixture(t)

	_, err := f.service.Approve(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApproveMissingEmployee(t *testing.T) {
	f, _ := newWorkflowFixture(t)
	id := f.seedRequest(t, uuid.New(), `{"field":"firstName","newValue":"Ana"}`)

	_, err := f.service.Approve(context.Background(), id.String(), uuid.NewString())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	stored, findErr := f.requests.FindByID(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, model.ChangeRequestPending, stored.Status)
}

func TestApproveTwiceConflicts(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "firstName", "Ana")

	_, err := f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrTransitionConflict)

	// No second profile write happened
	assert.Len(t, f.employees.writes, 1)
}

func TestRejectApprovedRequestConflicts(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "firstName", "Ana")

	_, err := f.service.Approve(context.Background(), resp.RequestID, uuid.NewString())
	require.NoError(t, err)

	_, err = f.service.Reject(context.Background(), resp.RequestID, uuid.NewString(), "too late")
	assert.ErrorIs(t, err, repository.ErrTransitionConflict)
}

func TestRejectOverwritesReasonAndSetsProcessedAt(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	resp := f.submit(t, employeeID, "firstName", "Ana")

	rejected, err := f.service.Reject(context.Background(), resp.RequestID, uuid.NewString(), "duplicate")
	require.NoError(t, err)
	assert.Equal(t, model.ChangeRequestRejected, rejected.Status)
	assert.Equal(t, "duplicate", rejected.Reason)
	assert.NotNil(t, rejected.ProcessedAt)

	// Rejection never touches the profile
	assert.Empty(t, f.employees.writes)
}

func TestRejectMissingRequest(t *testing.T) {
	f, _ := newWorkflowFixture(t)

	_, err := f.service.Reject(context.Background(), uuid.NewString(), uuid.NewString(), "nope")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRejectSkipsDecoding(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)
	id := f.seedRequest(t, employeeID, "completely broken payload")

	rejected, err := f.service.Reject(context.Background(), id.String(), uuid.NewString(), "unreadable")
	require.NoError(t, err)
	assert.Equal(t, model.ChangeRequestRejected, rejected.Status)
}

func TestListByEmployeeOrdersBySubmittedAtDescending(t *testing.T) {
	f, employeeID := newWorkflowFixture(t)

	base := time.Now()
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		require.NoError(t, f.requests.Create(context.Background(), &model.ChangeRequest{
			RequestID:         uuid.New(),
			EmployeeProfileID: employeeID,
			EncodedChange:     `{"field":"firstName","newValue":"v"}`,
			Reason:            string(rune('a' + i)),
			Status:            model.ChangeRequestPending,
			SubmittedAt:       base.Add(offset),
		}))
	}

	result, err := f.service.ListByEmployee(context.Background(), employeeID.String())
	require.NoError(t, err)
	require.Len(t, result, 3)

	for i := 1; i < len(result); i++ {
		prev, parseErr := time.Parse(time.RFC3339, result[i-1].SubmittedAt)
		require.NoError(t, parseErr)
		cur, parseErr := time.Parse(time.RFC3339, result[i].SubmittedAt)
		require.NoError(t, parseErr)
		assert.False(t, cur.After(prev), "expected submitted_at descending")
	}
}
