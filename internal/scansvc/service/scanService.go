package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/avvvet/scan-services/internal/scansvc/broker"
	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/store"
)

var ErrMissingEmployeeID = errors.New("employee id is required")

type Decision string

const (
	Allowed Decision = "ALLOWED"
	Denied  Decision = "DENIED"
)

// ScanRequest is one scan attempt as received from a client.
type ScanRequest struct {
	EmployeeID string
	IPAddress  *string
	UserAgent  *string
}

type ScanResult struct {
	Decision   Decision
	EmployeeID string
	Employee   *models.Employee // set when allowed
	Timestamp  time.Time
}

// ScanObserver is notified once per scan log row written.
type ScanObserver interface {
	ObserveScan(status models.ScanStatus)
}

// ScanService struct represents the scan decision layer
type ScanService struct {
	employees store.Employees
	logs      store.ScanLogs
	broker    *broker.Broker
	observer  ScanObserver
	now       func() time.Time
}

func NewScanService(employees store.Employees, logs store.ScanLogs, b *broker.Broker, observer ScanObserver) *ScanService {
	return &ScanService{
		employees: employees,
		logs:      logs,
		broker:    b,
		observer:  observer,
		now:       time.Now,
	}
}

// Scan decides one attempt. Every call past id validation writes exactly one
// scan log row: SUCCESS or DENIED, or a best effort ERROR row when lookup or
// the decision write fails. The first failure is what gets returned.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	employeeID := models.NormalizeEmployeeID(req.EmployeeID)
	if employeeID == "" {
		return nil, ErrMissingEmployeeID
	}

	employee, err := s.employees.LookupEmployee(ctx, employeeID)
	if err != nil {
		s.logError(ctx, employeeID, req, err)
		return nil, err
	}

	result := &ScanResult{
		Decision:   Denied,
		EmployeeID: employeeID,
		Employee:   employee,
	}
	status := models.ScanDenied
	if employee != nil {
		result.Decision = Allowed
		status = models.ScanSuccess
	}

	if err := s.logs.AppendScanLog(ctx, models.ScanAttempt{
		EmployeeID: employeeID,
		Status:     status,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	}); err != nil {
		s.logError(ctx, employeeID, req, err)
		return nil, err
	}

	result.Timestamp = s.now()
	s.notify(employeeID, status, req.IPAddress, result.Timestamp)
	return result, nil
}

// logError writes the ERROR row. Ids that cannot be stored as text are
// replaced and quoted into additional_info. A failure here is logged and
// swallowed so it never masks cause.
func (s *ScanService) logError(ctx context.Context, employeeID string, req ScanRequest, cause error) {
	info := cause.Error()
	if safe, ok := models.LoggableEmployeeID(employeeID); !ok {
		info = fmt.Sprintf("%s; raw employee_id %q", info, employeeID)
		employeeID = safe
	}
	err := s.logs.AppendScanLog(ctx, models.ScanAttempt{
		EmployeeID:     employeeID,
		Status:         models.ScanError,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		AdditionalInfo: &info,
	})
	if err != nil {
		log.Errorf("Error [ScanService.logError] employee %s: %s (cause: %s)", employeeID, err, cause)
		return
	}
	s.notify(employeeID, models.ScanError, req.IPAddress, s.now())
}

func (s *ScanService) notify(employeeID string, status models.ScanStatus, ip *string, at time.Time) {
	if s.observer != nil {
		s.observer.ObserveScan(status)
	}

	ev := broker.ScanEvent{EmployeeID: employeeID, Status: status, Timestamp: at}
	if ip != nil {
		ev.IPAddress = *ip
	}
	s.broker.PublishScan(ev)
}
