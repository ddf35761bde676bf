package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldUpdate names the exact profile column an approved change writes,
// and the value to write. One change request maps to exactly one column.
type FieldUpdate struct {
	Column string
	Value  interface{}
}

// fieldRule carries the target column and the field-specific validation /
// transformation for one allow-listed field. Adding a field to the
// allow-list means adding one entry here with its own rule.
type fieldRule struct {
	column string
	apply  func(newValue interface{}) (interface{}, error)
}

var nationalIDRe = regexp.MustCompile(`^\d{14}$`)

// fieldRules is the closed allow-list of profile fields a change request
// may target. Any field not listed fails with ErrUnsupportedField.
var fieldRules = map[string]fieldRule{
	"firstName": {column: "first_name", apply: trimmedString},
	"lastName":  {column: "last_name", apply: trimmedString},
	"nationalId": {column: "national_id", apply: func(v interface{}) (interface{}, error) {
		s := stringify(v)
		if !nationalIDRe.MatchString(s) {
			return nil, ErrInvalidNationalID
		}
		return s, nil
	}},
	"primaryPositionId":   {column: "primary_position_id", apply: verbatim},
	"primaryDepartmentId": {column: "primary_department_id", apply: verbatim},
	"contractType":        {column: "contract_type", apply: verbatim},
	"workType":            {column: "work_type", apply: verbatim},
}

// ValidateFieldChange checks the field against the allow-list, runs its
// rule, and builds the single-column update descriptor.
func ValidateFieldChange(field string, newValue interface{}) (FieldUpdate, error) {
	rule, ok := fieldRules[field]
	if !ok {
		return FieldUpdate{}, fmt.Errorf("%w: %s", ErrUnsupportedField, field)
	}
	value, err := rule.apply(newValue)
	if err != nil {
		return FieldUpdate{}, err
	}
	return FieldUpdate{Column: rule.column, Value: value}, nil
}

func trimmedString(v interface{}) (interface{}, error) {
	return strings.TrimSpace(stringify(v)), nil
}

func verbatim(v interface{}) (interface{}, error) {
	return v, nil
}

// stringify renders a decoded JSON value as its plain string form. Numbers
// come out of the decoder as float64 and must not pick up exponent
// notation, or a numeric 14-digit nationalId would fail its format check.
func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
