package service

import (
	"context"
	"time"

	"github.com/avvvet/scan-services/internal/scansvc/store"
)

const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"

	DBConnected    = "connected"
	DBError        = "error"
	DBNotConnected = "not_connected"
)

type DatabaseInfo struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
	Type    string `json:"type"`
}

type HealthReport struct {
	Status               string       `json:"status"`
	Timestamp            time.Time    `json:"timestamp"`
	Database             DatabaseInfo `json:"database"`
	TotalActiveEmployees int64        `json:"total_active_employees"`
}

// HealthService reports database reachability. With nil stores it reports
// the database as not connected.
type HealthService struct {
	prober    store.Prober
	employees store.Employees
}

func NewHealthService(prober store.Prober, employees store.Employees) *HealthService {
	return &HealthService{prober: prober, employees: employees}
}

func (s *HealthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:    HealthDegraded,
		Timestamp: time.Now(),
		Database:  DatabaseInfo{Status: DBNotConnected, Type: "PostgreSQL"},
	}
	if s == nil || s.prober == nil || s.employees == nil {
		return report
	}

	version, err := s.prober.ServerVersion(ctx)
	if err != nil {
		report.Database.Status = DBError
		report.Database.Error = err.Error()
		return report
	}

	count, err := s.employees.CountActiveEmployees(ctx)
	if err != nil {
		report.Database.Status = DBError
		report.Database.Error = err.Error()
		return report
	}

	report.Status = HealthHealthy
	report.Database.Status = DBConnected
	report.Database.Version = version
	report.TotalActiveEmployees = count
	return report
}
