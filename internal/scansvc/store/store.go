package store

import (
	"context"
	"errors"

	"github.com/avvvet/scan-services/internal/scansvc/models"
)

// ErrDuplicateEmployee reports a unique violation on employees.employee_id.
// InsertEmployee folds it into a false result.
var ErrDuplicateEmployee = errors.New("employee id already exists")

type Employees interface {
	// LookupEmployee returns nil when the id is unknown or deactivated.
	LookupEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
	// InsertEmployee returns false when the id already exists.
	InsertEmployee(ctx context.Context, e models.NewEmployee) (bool, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	UpdateEmployeeStatus(ctx context.Context, employeeID string, isActive bool) (bool, error)
	UpdateEmployeeFields(ctx context.Context, employeeID string, u models.EmployeeUpdate) (bool, error)
	CountActiveEmployees(ctx context.Context) (int64, error)
	EmployeeScanSummary(ctx context.Context, employeeID *string, days int) ([]models.EmployeeScanSummary, error)
}

type ScanLogs interface {
	AppendScanLog(ctx context.Context, a models.ScanAttempt) error
	ListScanLogs(ctx context.Context, f models.ScanLogFilter) ([]models.ScanLog, error)
	AggregateScanStats(ctx context.Context, r models.DateRange) ([]models.ScanStat, error)
}

// Prober reports database reachability for the health endpoint.
type Prober interface {
	ServerVersion(ctx context.Context) (string, error)
}
