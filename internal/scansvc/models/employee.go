package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Employee represents the employees table in the database.
type Employee struct {
	ID         int64     `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"` // uppercase, unique
	Name       string    `json:"name" db:"name"`
	Department *string   `json:"department" db:"department"`
	Position   *string   `json:"position" db:"position"`
	IsActive   bool      `json:"is_active" db:"is_active"` // false once soft deleted
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// NewEmployee carries the columns supplied on insert.
type NewEmployee struct {
	EmployeeID string
	Name       string
	Department *string
	Position   *string
}

// EmployeeUpdate holds the optional columns of a field update. Nil fields
// are left untouched.
type EmployeeUpdate struct {
	Name       *string
	Department *string
	Position   *string
}

func (u EmployeeUpdate) Empty() bool {
	return u.Name == nil && u.Department == nil && u.Position == nil
}

// EmployeeScanSummary is the per employee scan aggregate over a window.
type EmployeeScanSummary struct {
	EmployeeID      string     `json:"employee_id" db:"employee_id"`
	Name            string     `json:"name" db:"name"`
	Department      *string    `json:"department" db:"department"`
	TotalScans      int64      `json:"total_scans" db:"total_scans"`
	SuccessfulScans int64      `json:"successful_scans" db:"successful_scans"`
	DeniedScans     int64      `json:"denied_scans" db:"denied_scans"`
	LastScan        *time.Time `json:"last_scan" db:"last_scan"`
}

// UnreadableEmployeeID stands in for ids that cannot be stored as text.
const UnreadableEmployeeID = "UNREADABLE"

// LoggableEmployeeID returns id with NUL bytes and invalid UTF-8 removed so it
// can always be written to scan_logs. ok is false when id had to change.
func LoggableEmployeeID(id string) (safe string, ok bool) {
	safe = strings.ToValidUTF8(strings.ReplaceAll(id, "\x00", ""), "")
	if safe == "" {
		safe = UnreadableEmployeeID
	}
	return safe, safe == id
}

// StorableText reports whether v can be bound to a postgres text column.
func StorableText(v string) bool {
	return utf8.ValidString(v) && !strings.ContainsRune(v, 0)
}

// NormalizeEmployeeID trims surrounding whitespace and uppercases the id.
func NormalizeEmployeeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
