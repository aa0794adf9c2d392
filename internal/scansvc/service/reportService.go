package service

import (
	"context"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/store"
)

const (
	DefaultLogLimit    = 50
	MaxLogLimit        = 1000
	DefaultSummaryDays = 30
	MaxSummaryDays     = 3660
)

// ReportService serves the read only views over the scan log.
type ReportService struct {
	employees store.Employees
	logs      store.ScanLogs
}

func NewReportService(employees store.Employees, logs store.ScanLogs) *ReportService {
	return &ReportService{employees: employees, logs: logs}
}

// Logs returns one page of scan logs, newest first. Filter ids are
// normalized the same way scans are.
func (s *ReportService) Logs(ctx context.Context, f models.ScanLogFilter) ([]models.ScanLog, error) {
	return s.logs.ListScanLogs(ctx, NormalizeLogFilter(f))
}

// NormalizeLogFilter clamps the page window into range and normalizes the
// employee id.
func NormalizeLogFilter(f models.ScanLogFilter) models.ScanLogFilter {
	if f.Limit <= 0 || f.Limit > MaxLogLimit {
		f.Limit = DefaultLogLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.EmployeeID != nil {
		id := models.NormalizeEmployeeID(*f.EmployeeID)
		f.EmployeeID = &id
	}
	return f
}

func (s *ReportService) Statistics(ctx context.Context, r models.DateRange) ([]models.ScanStat, error) {
	return s.logs.AggregateScanStats(ctx, r)
}

func (s *ReportService) Summary(ctx context.Context, employeeID *string, days int) ([]models.EmployeeScanSummary, error) {
	days = NormalizeSummaryDays(days)
	if employeeID != nil {
		id := models.NormalizeEmployeeID(*employeeID)
		employeeID = &id
	}
	return s.employees.EmployeeScanSummary(ctx, employeeID, days)
}

// NormalizeSummaryDays maps a missing or non-positive window to the default
// and caps it at MaxSummaryDays.
func NormalizeSummaryDays(days int) int {
	if days <= 0 {
		return DefaultSummaryDays
	}
	if days > MaxSummaryDays {
		return MaxSummaryDays
	}
	return days
}
