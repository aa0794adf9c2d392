package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/store"
)

var (
	ErrMissingName      = errors.New("employee name is required")
	ErrEmployeeExists   = errors.New("employee id already exists")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoFields         = errors.New("no fields to update")
	ErrInvalidField     = errors.New("invalid field")
)

// column widths of the employees table
const (
	MaxEmployeeIDLen = 50
	MaxNameLen       = 255
	MaxDepartmentLen = 100
	MaxPositionLen   = 100
)

// EmployeeInput is the unnormalized add request. Nil optional fields are
// stored as NULL.
type EmployeeInput struct {
	EmployeeID string
	Name       string
	Department *string
	Position   *string
}

type EmployeeService struct {
	employees store.Employees
}

func NewEmployeeService(employees store.Employees) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// Add normalizes and inserts an employee, returning what was stored.
func (s *EmployeeService) Add(ctx context.Context, in EmployeeInput) (models.NewEmployee, error) {
	e := models.NewEmployee{
		EmployeeID: models.NormalizeEmployeeID(in.EmployeeID),
		Name:       strings.TrimSpace(in.Name),
		Department: trimOptional(in.Department),
		Position:   trimOptional(in.Position),
	}
	if e.EmployeeID == "" {
		return models.NewEmployee{}, ErrMissingEmployeeID
	}
	if e.Name == "" {
		return models.NewEmployee{}, ErrMissingName
	}
	if err := validateFields(&e.EmployeeID, &e.Name, e.Department, e.Position); err != nil {
		return models.NewEmployee{}, err
	}

	ok, err := s.employees.InsertEmployee(ctx, e)
	if err != nil {
		return models.NewEmployee{}, err
	}
	if !ok {
		return models.NewEmployee{}, ErrEmployeeExists
	}
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	return s.employees.ListEmployees(ctx, activeOnly)
}

// SetActive flips is_active. Deactivation is the only form of removal.
func (s *EmployeeService) SetActive(ctx context.Context, employeeID string, active bool) (string, error) {
	id := models.NormalizeEmployeeID(employeeID)
	ok, err := s.employees.UpdateEmployeeStatus(ctx, id, active)
	if err != nil {
		return id, err
	}
	if !ok {
		return id, ErrEmployeeNotFound
	}
	return id, nil
}

// Update applies the supplied fields. A blank name counts as not supplied.
func (s *EmployeeService) Update(ctx context.Context, employeeID string, u models.EmployeeUpdate) (string, error) {
	id := models.NormalizeEmployeeID(employeeID)

	if u.Name != nil {
		u.Name = trimOptional(u.Name)
	}
	if u.Department != nil {
		d := strings.TrimSpace(*u.Department)
		u.Department = &d
	}
	if u.Position != nil {
		p := strings.TrimSpace(*u.Position)
		u.Position = &p
	}
	if u.Empty() {
		return id, ErrNoFields
	}
	if err := validateFields(nil, u.Name, u.Department, u.Position); err != nil {
		return id, err
	}

	ok, err := s.employees.UpdateEmployeeFields(ctx, id, u)
	if err != nil {
		return id, err
	}
	if !ok {
		return id, ErrEmployeeNotFound
	}
	return id, nil
}

// validateFields rejects values the employees columns cannot hold. Nil
// arguments are skipped.
func validateFields(employeeID, name, department, position *string) error {
	for _, f := range []struct {
		column string
		value  *string
		max    int
	}{
		{"employee_id", employeeID, MaxEmployeeIDLen},
		{"name", name, MaxNameLen},
		{"department", department, MaxDepartmentLen},
		{"position", position, MaxPositionLen},
	} {
		if f.value == nil {
			continue
		}
		if !models.StorableText(*f.value) {
			return fmt.Errorf("%w: %s contains invalid characters", ErrInvalidField, f.column)
		}
		if utf8.RuneCountInString(*f.value) > f.max {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidField, f.column, f.max)
		}
	}
	return nil
}

// trimOptional trims v and maps blank values to nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
