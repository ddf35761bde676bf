package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateEmployeeRequest struct {
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	NationalID          string `json:"national_id"`
	PrimaryPositionID   string `json:"primary_position_id"`
	PrimaryDepartmentID string `json:"primary_department_id"`
	ContractType        string `json:"contract_type" binding:"omitempty,oneof=FULL_TIME PART_TIME"`
	WorkType            string `json:"work_type" binding:"omitempty,oneof=ON_SITE REMOTE HYBRID"`
	GrossSalary         string `json:"gross_salary"`
	Phone               string `json:"phone"`
	PersonalEmail       string `json:"personal_email" binding:"omitempty,email"`
	WorkEmail           string `json:"work_email" binding:"omitempty,email"`
	DateOfHire          string `json:"date_of_hire" binding:"required"` // YYYY-MM-DD
	ContractStartDate   string `json:"contract_start_date"`
	ContractEndDate     string `json:"contract_end_date"`
}

type UpdateEmployeeRequest struct {
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	NationalID          string `json:"national_id"`
	PrimaryPositionID   string `json:"primary_position_id"`
	PrimaryDepartmentID string `json:"primary_department_id"`
	ContractType        string `json:"contract_type" binding:"omitempty,oneof=FULL_TIME PART_TIME"`
	WorkType            string `json:"work_type" binding:"omitempty,oneof=ON_SITE REMOTE HYBRID"`
	GrossSalary         string `json:"gross_salary"`
	ContractStartDate   string `json:"contract_start_date"`
	ContractEndDate     string `json:"contract_end_date"`
}

// Address mirrors the loosely structured address object employees edit
// through self-service. Stored as jsonb on the profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// SelfUpdateRequest carries the fields an employee may edit directly.
// Anything outside this set must go through a change request.
type SelfUpdateRequest struct {
	Phone         *string  `json:"phone"`
	PersonalEmail *string  `json:"personal_email" binding:"omitempty,email"`
	WorkEmail     *string  `json:"work_email" binding:"omitempty,email"`
	Biography     *string  `json:"biography"`
	Address       *Address `json:"address"`
}

type EmployeeResponse struct {
	ID                  string   `json:"id"`
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	NationalID          string   `json:"national_id"`
	PrimaryPositionID   *string  `json:"primary_position_id"`
	PrimaryPosition     string   `json:"primary_position,omitempty"`
	PrimaryDepartmentID *string  `json:"primary_department_id"`
	PrimaryDepartment   string   `json:"primary_department,omitempty"`
	ContractType        string   `json:"contract_type"`
	WorkType            string   `json:"work_type"`
	GrossSalary         string   `json:"gross_salary"`
	Phone               string   `json:"phone"`
	PersonalEmail       string   `json:"personal_email"`
	WorkEmail           string   `json:"work_email"`
	Biography           string   `json:"biography"`
	Address             *Address `json:"address"`
	DateOfHire          *string  `json:"date_of_hire"`
	ContractStartDate   *string  `json:"contract_start_date"`
	ContractEndDate     *string  `json:"contract_end_date"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

// --- Interface ---

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	SelfUpdate(ctx context.Context, id string, req SelfUpdateRequest) (EmployeeResponse, error)
}

type employeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

// --- Implementation ---

func (s *employeeService) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	employee := model.EmployeeProfile{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		NationalID:    req.NationalID,
		ContractType:  req.ContractType,
		WorkType:      req.WorkType,
		Phone:         req.Phone,
		PersonalEmail: req.PersonalEmail,
		WorkEmail:     req.WorkEmail,
	}

	if req.PrimaryPositionID != "" {
		parsed, err := uuid.Parse(req.PrimaryPositionID)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid primary_position_id: %w", err)
		}
		employee.PrimaryPositionID = &parsed
	}
	if req.PrimaryDepartmentID != "" {
		parsed, err := uuid.Parse(req.PrimaryDepartmentID)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid primary_department_id: %w", err)
		}
		employee.PrimaryDepartmentID = &parsed
	}
	if req.GrossSalary != "" {
		salary, err := decimal.NewFromString(req.GrossSalary)
		if err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid gross_salary: %w", err)
		}
		employee.GrossSalary = salary
	}

	var err error
	if employee.DateOfHire, err = parseDate(req.DateOfHire); err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid date_of_hire: %w", err)
	}
	if employee.ContractStartDate, err = parseDate(req.ContractStartDate); err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid contract_start_date: %w", err)
	}
	if employee.ContractEndDate, err = parseDate(req.ContractEndDate); err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid contract_end_date: %w", err)
	}

	if err := s.repo.Create(ctx, &employee); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return toEmployeeResponse(employee), nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, ErrEmployeeNotFound
		}
		return EmployeeResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	return toEmployeeResponse(*employee), nil
}

func (s *employeeService) List(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	employees, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch employees: %w", err)
	}

	result := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, toEmployeeResponse(e))
	}
	return result, total, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, ErrEmployeeNotFound
		}
		return EmployeeResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.NationalID != "" {
		employee.NationalID = req.NationalID
	}
	if req.ContractType != "" {
		employee.ContractType = req.ContractType
	}
	if req.WorkType != "" {
		employee.WorkType = req.WorkType
	}
	if req.PrimaryPositionID != "" {
		parsed, parseErr := uuid.Parse(req.PrimaryPositionID)
		if parseErr != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid primary_position_id: %w", parseErr)
		}
		employee.PrimaryPositionID = &parsed
	}
	if req.PrimaryDepartmentID != "" {
		parsed, parseErr := uuid.Parse(req.PrimaryDepartmentID)
		if parseErr != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid primary_department_id: %w", parseErr)
		}
		employee.PrimaryDepartmentID = &parsed
	}
	if req.GrossSalary != "" {
		salary, parseErr := decimal.NewFromString(req.GrossSalary)
		if parseErr != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid gross_salary: %w", parseErr)
		}
		employee.GrossSalary = salary
	}
	if req.ContractStartDate != "" {
		if employee.ContractStartDate, err = parseDate(req.ContractStartDate); err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid contract_start_date: %w", err)
		}
	}
	if req.ContractEndDate != "" {
		if employee.ContractEndDate, err = parseDate(req.ContractEndDate); err != nil {
			return EmployeeResponse{}, fmt.Errorf("invalid contract_end_date: %w", err)
		}
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return toEmployeeResponse(*employee), nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid employee id: %w", err)
	}
	if err := s.repo.Delete(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// SelfUpdate writes only the allow-listed self-service fields. Fields
// absent from the payload are left untouched; the DTO shape itself drops
// anything outside the allow-list.
func (s *employeeService) SelfUpdate(ctx context.Context, id string, req SelfUpdateRequest) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, fmt.Errorf("invalid employee id: %w", err)
	}

	fields := map[string]interface{}{}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.PersonalEmail != nil {
		fields["personal_email"] = *req.PersonalEmail
	}
	if req.WorkEmail != nil {
		fields["work_email"] = *req.WorkEmail
	}
	if req.Biography != nil {
		fields["biography"] = *req.Biography
	}
	if req.Address != nil {
		raw, _ := json.Marshal(req.Address)
		fields["address"] = string(raw)
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, employeeID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EmployeeResponse{}, ErrEmployeeNotFound
			}
			return EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
		}
	}

	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, ErrEmployeeNotFound
		}
		return EmployeeResponse{}, fmt.Errorf("failed to reload employee: %w", err)
	}

	return toEmployeeResponse(*employee), nil
}

// --- Helpers ---

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func toEmployeeResponse(e model.EmployeeProfile) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID.String(),
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		NationalID:    e.NationalID,
		ContractType:  e.ContractType,
		WorkType:      e.WorkType,
		GrossSalary:   e.GrossSalary.StringFixed(2),
		Phone:         e.Phone,
		PersonalEmail: e.PersonalEmail,
		WorkEmail:     e.WorkEmail,
		Biography:     e.Biography,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}

	if e.PrimaryPositionID != nil {
		s := e.PrimaryPositionID.String()
		resp.PrimaryPositionID = &s
	}
	if e.PrimaryPosition != nil {
		resp.PrimaryPosition = e.PrimaryPosition.Title
	}
	if e.PrimaryDepartmentID != nil {
		s := e.PrimaryDepartmentID.String()
		resp.PrimaryDepartmentID = &s
	}
	if e.PrimaryDepartment != nil {
		resp.PrimaryDepartment = e.PrimaryDepartment.Name
	}
	if e.Address != "" {
		var addr Address
		if err := json.Unmarshal([]byte(e.Address), &addr); err == nil {
			resp.Address = &addr
		}
	}
	if e.DateOfHire != nil {
		s := e.DateOfHire.Format("2006-01-02")
		resp.DateOfHire = &s
	}
	if e.ContractStartDate != nil {
		s := e.ContractStartDate.Format("2006-01-02")
		resp.ContractStartDate = &s
	}
	if e.ContractEndDate != nil {
		s := e.ContractEndDate.Format("2006-01-02")
		resp.ContractEndDate = &s
	}

	return resp
}
