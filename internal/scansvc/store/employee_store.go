package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const employeeColumns = `id, employee_id, name, department, position, is_active, created_at, updated_at`

type EmployeeStore struct {
	db *pgxpool.Pool
}

var _ Employees = (*EmployeeStore)(nil)

func NewEmployeeStore(db *pgxpool.Pool) *EmployeeStore {
	return &EmployeeStore{db: db}
}

func (s *EmployeeStore) LookupEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	var e models.Employee
	found := false

	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		err := pgxscan.Get(ctx, tx, &e, `
			SELECT `+employeeColumns+`
			FROM employees
			WHERE employee_id = $1 AND is_active = TRUE
		`, employeeID)
		if pgxscan.NotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &e, nil
}

func (s *EmployeeStore) InsertEmployee(ctx context.Context, e models.NewEmployee) (bool, error) {
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO employees (employee_id, name, department, position)
			VALUES ($1, $2, $3, $4)
		`, e.EmployeeID, e.Name, e.Department, e.Position)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmployee
		}
		return err
	})
	if errors.Is(err, ErrDuplicateEmployee) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not add employee: %w", err)
	}

	return true, nil
}

func (s *EmployeeStore) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	var q query
	if activeOnly {
		q.where("is_active = " + q.arg(true))
	}
	sql := `SELECT ` + employeeColumns + ` FROM employees` + q.whereSQL() + ` ORDER BY name`

	employees := []models.Employee{}
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		return pgxscan.Select(ctx, tx, &employees, sql, q.args...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

func (s *EmployeeStore) UpdateEmployeeStatus(ctx context.Context, employeeID string, isActive bool) (bool, error) {
	var affected int64

	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE employees
			SET is_active = $1
			WHERE employee_id = $2
		`, isActive, employeeID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update employee status: %w", err)
	}

	return affected > 0, nil
}

// UpdateEmployeeFields returns false without touching the database when u
// carries no fields.
func (s *EmployeeStore) UpdateEmployeeFields(ctx context.Context, employeeID string, u models.EmployeeUpdate) (bool, error) {
	sql, args, ok := updateFieldsQuery(employeeID, u)
	if !ok {
		return false, nil
	}

	var affected int64
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update employee info: %w", err)
	}

	return affected > 0, nil
}

func (s *EmployeeStore) CountActiveEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

func (s *EmployeeStore) EmployeeScanSummary(ctx context.Context, employeeID *string, days int) ([]models.EmployeeScanSummary, error) {
	sql, args := scanSummaryQuery(employeeID, days)

	summary := []models.EmployeeScanSummary{}
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		return pgxscan.Select(ctx, tx, &summary, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get employee scan summary: %w", err)
	}

	return summary, nil
}

// ServerVersion reports the postgres version string.
func (s *EmployeeStore) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := s.db.QueryRow(ctx, `SELECT version()`).Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

func updateFieldsQuery(employeeID string, u models.EmployeeUpdate) (string, []any, bool) {
	var q query
	if u.Name != nil {
		q.set("name", *u.Name)
	}
	if u.Department != nil {
		q.set("department", *u.Department)
	}
	if u.Position != nil {
		q.set("position", *u.Position)
	}
	if len(q.sets) == 0 {
		return "", nil, false
	}
	q.where("employee_id = " + q.arg(employeeID))

	return `UPDATE employees SET ` + q.setSQL() + q.whereSQL(), q.args, true
}

func scanSummaryQuery(employeeID *string, days int) (string, []any) {
	var q query
	window := q.arg(days)
	q.where("e.is_active = TRUE")
	if employeeID != nil {
		q.where("e.employee_id = " + q.arg(*employeeID))
	}

	sql := `
		SELECT
			e.employee_id,
			e.name,
			e.department,
			COUNT(sl.id) AS total_scans,
			COUNT(CASE WHEN sl.status = 'SUCCESS' THEN 1 END) AS successful_scans,
			COUNT(CASE WHEN sl.status = 'DENIED' THEN 1 END) AS denied_scans,
			MAX(sl.scan_time) AS last_scan
		FROM employees e
		LEFT JOIN scan_logs sl ON e.employee_id = sl.employee_id
			AND sl.scan_time >= CURRENT_DATE - make_interval(days => ` + window + `::int)` +
		q.whereSQL() + `
		GROUP BY e.employee_id, e.name, e.department
		ORDER BY total_scans DESC, e.employee_id`

	return sql, q.args
}
