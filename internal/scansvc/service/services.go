package service

import (
	"github.com/avvvet/scan-services/internal/scansvc/broker"
	"github.com/avvvet/scan-services/internal/scansvc/store"
)

// Services is the live backend behind the business endpoints. The request
// layer is handed nil when the database could not be initialized.
type Services struct {
	Scans     *ScanService
	Employees *EmployeeService
	Reports   *ReportService
}

func NewServices(employees store.Employees, logs store.ScanLogs, b *broker.Broker, observer ScanObserver) *Services {
	return &Services{
		Scans:     NewScanService(employees, logs, b, observer),
		Employees: NewEmployeeService(employees),
		Reports:   NewReportService(employees, logs),
	}
}
