package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFieldChangeNames(t *testing.T) {
	update, err := ValidateFieldChange("firstName", "  Ana  ")
	require.NoError(t, err)
	assert.Equal(t, "first_name", update.Column)
	assert.Equal(t, "Ana", update.Value)

	update, err = ValidateFieldChange("lastName", "Haddad")
	require.NoError(t, err)
	assert.Equal(t, "last_name", update.Column)
	assert.Equal(t, "Haddad", update.Value)
}

func TestValidateFieldChangeNationalID(t *testing.T) {
	update, err := ValidateFieldChange("nationalId", "12345678901234")
	require.NoError(t, err)
	assert.Equal(t, "national_id", update.Column)
	assert.Equal(t, "12345678901234", update.Value)

	// JSON numbers decode as float64 and still validate
	update, err = ValidateFieldChange("nationalId", float64(12345678901234))
	require.NoError(t, err)
	assert.Equal(t, "12345678901234", update.Value)

	for _, bad := range []interface{}{"1234", "1234567890123456", "1234567890123a", ""} {
		_, err := ValidateFieldChange("nationalId", bad)
		assert.ErrorIs(t, err, ErrInvalidNationalID, "value=%v", bad)
	}
}

func TestValidateFieldChangeReferenceFieldsVerbatim(t *testing.T) {
	for field, column := range map[string]string{
		"primaryPositionId":   "primary_position_id",
		"primaryDepartmentId": "primary_department_id",
		"contractType":        "contract_type",
		"workType":            "work_type",
	} {
		update, err := ValidateFieldChange(field, "some-reference-value")
		require.NoError(t, err)
		assert.Equal(t, column, update.Column)
		assert.Equal(t, "some-reference-value", update.Value)
	}
}

func TestValidateFieldChangeUnsupportedField(t *testing.T) {
	for _, field := range []string{"unknownThing", "salary", "grossSalary", "phone", ""} {
		_, err := ValidateFieldChange(field, "anything")
		assert.ErrorIs(t, err, ErrUnsupportedField, "field=%q", field)
	}
}
