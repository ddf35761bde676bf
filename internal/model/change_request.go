package model

import (
	"time"

	"github.com/google/uuid"
)

// ChangeRequestStatus enum constants
const (
	ChangeRequestPending  = "PENDING"
	ChangeRequestApproved = "APPROVED"
	ChangeRequestRejected = "REJECTED"
)

// ChangeRequest is an employee's proposal to change one restricted field
// on their own profile. It is created PENDING and transitions exactly once,
// to APPROVED or REJECTED; the transition is guarded at the repository so a
// request can never be processed twice.
type ChangeRequest struct {
	RequestID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"request_id"`
	EmployeeProfileID uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_profile_id"`
	// EncodedChange holds the serialized {field, newValue} pair. Stored as
	// text rather than jsonb: payloads written by older clients may carry
	// stray line breaks, and the sanitizing decoder repairs them at
	// approval time.
	EncodedChange string     `gorm:"type:text;not null" json:"encoded_change"`
	Reason        string     `gorm:"type:text" json:"reason"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	SubmittedAt   time.Time  `gorm:"not null;index" json:"submitted_at"`
	ProcessedAt   *time.Time `json:"processed_at"`
}
