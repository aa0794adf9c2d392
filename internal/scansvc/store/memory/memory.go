// Package memory keeps employees and scan logs in process memory. It mirrors
// the postgres stores closely enough to drive handler and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/store"
)

type Store struct {
	mu        sync.Mutex
	employees map[string]*models.Employee
	logs      []models.ScanLog
	nextEmpID int64
	nextLogID int64

	// Now stamps created_at, updated_at and scan_time.
	Now func() time.Time
}

var (
	_ store.Employees = (*Store)(nil)
	_ store.ScanLogs  = (*Store)(nil)
	_ store.Prober    = (*Store)(nil)
)

func New() *Store {
	return &Store{
		employees: make(map[string]*models.Employee),
		Now:       time.Now,
	}
}

func (s *Store) LookupEmployee(_ context.Context, employeeID string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[employeeID]
	if !ok || !e.IsActive {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s *Store) InsertEmployee(_ context.Context, ne models.NewEmployee) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.employees[ne.EmployeeID]; exists {
		return false, nil
	}

	s.nextEmpID++
	now := s.Now()
	s.employees[ne.EmployeeID] = &models.Employee{
		ID:         s.nextEmpID,
		EmployeeID: ne.EmployeeID,
		Name:       ne.Name,
		Department: ne.Department,
		Position:   ne.Position,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return true, nil
}

func (s *Store) ListEmployees(_ context.Context, activeOnly bool) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Employee{}
	for _, e := range s.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateEmployeeStatus(_ context.Context, employeeID string, isActive bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[employeeID]
	if !ok {
		return false, nil
	}
	e.IsActive = isActive
	e.UpdatedAt = s.Now()
	return true, nil
}

func (s *Store) UpdateEmployeeFields(_ context.Context, employeeID string, u models.EmployeeUpdate) (bool, error) {
	if u.Empty() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[employeeID]
	if !ok {
		return false, nil
	}
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Department != nil {
		e.Department = u.Department
	}
	if u.Position != nil {
		e.Position = u.Position
	}
	e.UpdatedAt = s.Now()
	return true, nil
}

func (s *Store) CountActiveEmployees(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, e := range s.employees {
		if e.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *Store) EmployeeScanSummary(_ context.Context, employeeID *string, days int) ([]models.EmployeeScanSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)

	out := []models.EmployeeScanSummary{}
	for _, e := range s.employees {
		if !e.IsActive || (employeeID != nil && e.EmployeeID != *employeeID) {
			continue
		}
		row := models.EmployeeScanSummary{EmployeeID: e.EmployeeID, Name: e.Name, Department: e.Department}
		for i := range s.logs {
			l := s.logs[i]
			if l.EmployeeID != e.EmployeeID || l.ScanTime.Before(cutoff) {
				continue
			}
			row.TotalScans++
			switch l.Status {
			case models.ScanSuccess:
				row.SuccessfulScans++
			case models.ScanDenied:
				row.DeniedScans++
			}
			if row.LastScan == nil || l.ScanTime.After(*row.LastScan) {
				t := l.ScanTime
				row.LastScan = &t
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScans != out[j].TotalScans {
			return out[i].TotalScans > out[j].TotalScans
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (s *Store) ServerVersion(context.Context) (string, error) {
	return "memory", nil
}

func (s *Store) AppendScanLog(_ context.Context, a models.ScanAttempt) error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid scan status %q", a.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLogID++
	s.logs = append(s.logs, models.ScanLog{
		ID:             s.nextLogID,
		EmployeeID:     a.EmployeeID,
		ScanTime:       s.Now(),
		Status:         a.Status,
		IPAddress:      a.IPAddress,
		UserAgent:      a.UserAgent,
		AdditionalInfo: a.AdditionalInfo,
	})
	return nil
}

func (s *Store) ListScanLogs(_ context.Context, f models.ScanLogFilter) ([]models.ScanLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.ScanLog{}
	for _, l := range s.logs {
		if f.EmployeeID != nil && l.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		if e, ok := s.employees[l.EmployeeID]; ok {
			name := e.Name
			l.EmployeeName = &name
			l.Department = e.Department
		}
		matched = append(matched, l)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].ScanTime.Equal(matched[j].ScanTime) {
			return matched[i].ScanTime.After(matched[j].ScanTime)
		}
		return matched[i].ID > matched[j].ID
	})

	if f.Offset >= len(matched) {
		return []models.ScanLog{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], nil
}

func (s *Store) AggregateScanStats(_ context.Context, r models.DateRange) ([]models.ScanStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		status models.ScanStatus
		date   string
	}
	counts := map[key]int64{}
	for _, l := range s.logs {
		day := l.ScanTime.Format(time.DateOnly)
		if r.Start != nil && day < r.Start.Format(time.DateOnly) {
			continue
		}
		if r.End != nil && day > r.End.Format(time.DateOnly) {
			continue
		}
		counts[key{l.Status, day}]++
	}

	out := make([]models.ScanStat, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.ScanStat{Status: k.status, Count: n, ScanDate: k.date})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScanDate != out[j].ScanDate {
			return out[i].ScanDate > out[j].ScanDate
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}
