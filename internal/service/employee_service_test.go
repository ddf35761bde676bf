package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEmployeeCreateParsesDatesAndSalary(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo)

	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName:   "Omar",
		LastName:    "Haddad",
		NationalID:  "11111111111111",
		GrossSalary: "2500.50",
		DateOfHire:  "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2500.50", resp.GrossSalary)
	require.NotNil(t, resp.DateOfHire)
	assert.Equal(t, "2024-03-01", *resp.DateOfHire)
}

func TestEmployeeCreateRejectsBadDate(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName:  "Omar",
		LastName:   "Haddad",
		DateOfHire: "01/03/2024",
	})
	assert.Error(t, err)
}

func TestEmployeeGetByIDNotFound(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	_, err := svc.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestSelfUpdateWritesOnlyProvidedFields(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo)

	employee := &model.EmployeeProfile{FirstName: "Omar", LastName: "Haddad"}
	require.NoError(t, repo.Create(context.Background(), employee))

	_, err := svc.SelfUpdate(context.Background(), employee.ID.String(), SelfUpdateRequest{
		Phone:     strPtr("+20100000000"),
		Biography: strPtr("joined in 2024"),
	})
	require.NoError(t, err)

	written := map[string]interface{}{}
	for _, w := range repo.writes {
		written[w.column] = w.value
	}
	assert.Equal(t, map[string]interface{}{
		"phone":     "+20100000000",
		"biography": "joined in 2024",
	}, written)
}

func TestSelfUpdateSerializesAddress(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo)

	employee := &model.EmployeeProfile{FirstName: "Omar", LastName: "Haddad"}
	require.NoError(t, repo.Create(context.Background(), employee))

	_, err := svc.SelfUpdate(context.Background(), employee.ID.String(), SelfUpdateRequest{
		Address: &Address{Street: "1 Nile St", City: "Cairo", Country: "EG"},
	})
	require.NoError(t, err)

	require.Len(t, repo.writes, 1)
	assert.Equal(t, "address", repo.writes[0].column)
	assert.JSONEq(t, `{"street":"1 Nile St","city":"Cairo","country":"EG"}`, repo.writes[0].value.(string))
}

func TestSelfUpdateWithNoFieldsIsNoOp(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo)

	employee := &model.EmployeeProfile{FirstName: "Omar", LastName: "Haddad"}
	require.NoError(t, repo.Create(context.Background(), employee))

	_, err := svc.SelfUpdate(context.Background(), employee.ID.String(), SelfUpdateRequest{})
	require.NoError(t, err)
	assert.Empty(t, repo.writes)
}

func TestSelfUpdateMissingEmployee(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo())

	_, err := svc.SelfUpdate(context.Background(), uuid.NewString(), SelfUpdateRequest{
		Phone: strPtr("+20100000000"),
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
