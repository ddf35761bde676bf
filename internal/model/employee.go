package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractType enum constants
const (
	ContractTypeFullTime = "FULL_TIME"
	ContractTypePartTime = "PART_TIME"
)

// WorkType enum constants
const (
	WorkTypeOnSite = "ON_SITE"
	WorkTypeRemote = "REMOTE"
	WorkTypeHybrid = "HYBRID"
)

// Department is an organization-structure unit employees belong to.
// Departments and positions are migrated before EmployeeProfile so the
// foreign keys below always resolve.
type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Position is a job position within a department
type Position struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string      `gorm:"type:varchar(255);not null" json:"title"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// EmployeeProfile is the master record for one employee.
// A subset of its columns is mutable through the change-request workflow
// (see service.FieldRules); the self-service columns (phone, emails,
// biography, address) are editable directly by the employee.
type EmployeeProfile struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName           string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName            string          `gorm:"type:varchar(100);not null" json:"last_name"`
	NationalID          string          `gorm:"column:national_id;type:varchar(14);index" json:"national_id"`
	PrimaryPositionID   *uuid.UUID      `gorm:"type:uuid;index" json:"primary_position_id"`
	PrimaryPosition     *Position       `gorm:"foreignKey:PrimaryPositionID" json:"primary_position,omitempty"`
	PrimaryDepartmentID *uuid.UUID      `gorm:"type:uuid;index" json:"primary_department_id"`
	PrimaryDepartment   *Department     `gorm:"foreignKey:PrimaryDepartmentID" json:"primary_department,omitempty"`
	ContractType        string          `gorm:"type:varchar(20)" json:"contract_type"` // FULL_TIME, PART_TIME
	WorkType            string          `gorm:"type:varchar(20)" json:"work_type"`     // ON_SITE, REMOTE, HYBRID
	GrossSalary         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"gross_salary"`
	Phone               string          `gorm:"type:varchar(20)" json:"phone"`
	PersonalEmail       string          `gorm:"type:varchar(255)" json:"personal_email"`
	WorkEmail           string          `gorm:"type:varchar(255)" json:"work_email"`
	Biography           string          `gorm:"type:text" json:"biography"`
	Address             string          `gorm:"type:jsonb" json:"address"` // {street, city, country}
	DateOfHire          *time.Time      `json:"date_of_hire"`
	ContractStartDate   *time.Time      `json:"contract_start_date"`
	ContractEndDate     *time.Time      `json:"contract_end_date"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"` // GORM soft delete
}
