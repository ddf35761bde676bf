package service

import "errors"

// Workflow errors surfaced to the handler layer. RequestNotFound and the
// transition conflict (repository.ErrTransitionConflict) mean "not
// actionable now"; the field errors mean the stored proposal cannot be
// mechanically applied and must be rejected or resubmitted.
var (
	ErrRequestNotFound   = errors.New("change request not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrUnsupportedField  = errors.New("unsupported field")
	ErrInvalidNationalID = errors.New("nationalId must be 14 digits")
)
