package models

import (
	"time"
)

type ScanStatus string

const (
	ScanSuccess ScanStatus = "SUCCESS"
	ScanDenied  ScanStatus = "DENIED"
	ScanError   ScanStatus = "ERROR"
)

func (s ScanStatus) Valid() bool {
	switch s {
	case ScanSuccess, ScanDenied, ScanError:
		return true
	}
	return false
}

// ScanLog is one row of scan_logs, joined with the employee name and
// department at read time. Both joined columns are nil for unknown ids.
type ScanLog struct {
	ID             int64      `json:"id" db:"id"`
	EmployeeID     string     `json:"employee_id" db:"employee_id"`
	ScanTime       time.Time  `json:"scan_time" db:"scan_time"`
	Status         ScanStatus `json:"status" db:"status"`
	IPAddress      *string    `json:"ip_address" db:"ip_address"`
	UserAgent      *string    `json:"user_agent" db:"user_agent"`
	AdditionalInfo *string    `json:"additional_info" db:"additional_info"`
	EmployeeName   *string    `json:"employee_name" db:"employee_name"`
	Department     *string    `json:"department" db:"department"`
}

// ScanAttempt is the append-only record written for every scan decision.
type ScanAttempt struct {
	EmployeeID     string
	Status         ScanStatus
	IPAddress      *string
	UserAgent      *string
	AdditionalInfo *string
}

type ScanLogFilter struct {
	Limit      int
	Offset     int
	EmployeeID *string
	Status     *ScanStatus
}

// ScanStat is one (status, calendar date) bucket of scan counts.
type ScanStat struct {
	Status   ScanStatus `json:"status" db:"status"`
	Count    int64      `json:"count" db:"count"`
	ScanDate string     `json:"scan_date" db:"scan_date"` // YYYY-MM-DD
}

// DateRange bounds are calendar dates, both inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}
