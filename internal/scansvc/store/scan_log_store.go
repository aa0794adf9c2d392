package store

import (
	"context"
	"fmt"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScanLogStore struct {
	db *pgxpool.Pool
}

var _ ScanLogs = (*ScanLogStore)(nil)

func NewScanLogStore(db *pgxpool.Pool) *ScanLogStore {
	return &ScanLogStore{db: db}
}

func (s *ScanLogStore) AppendScanLog(ctx context.Context, a models.ScanAttempt) error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid scan status %q", a.Status)
	}

	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO scan_logs (employee_id, status, ip_address, user_agent, additional_info)
			VALUES ($1, $2, CAST($3::text AS inet), $4, $5)
		`, a.EmployeeID, string(a.Status), a.IPAddress, a.UserAgent, a.AdditionalInfo)
		return err
	})
	if err != nil {
		return fmt.Errorf("could not log scan attempt: %w", err)
	}
	return nil
}

func (s *ScanLogStore) ListScanLogs(ctx context.Context, f models.ScanLogFilter) ([]models.ScanLog, error) {
	sql, args := scanLogsQuery(f)

	logs := []models.ScanLog{}
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		return pgxscan.Select(ctx, tx, &logs, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get scan logs: %w", err)
	}

	return logs, nil
}

func (s *ScanLogStore) AggregateScanStats(ctx context.Context, r models.DateRange) ([]models.ScanStat, error) {
	sql, args := scanStatsQuery(r)

	stats := []models.ScanStat{}
	err := inTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		return pgxscan.Select(ctx, tx, &stats, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get scan statistics: %w", err)
	}

	return stats, nil
}

func scanLogsQuery(f models.ScanLogFilter) (string, []any) {
	var q query
	if f.EmployeeID != nil {
		q.where("sl.employee_id = " + q.arg(*f.EmployeeID))
	}
	if f.Status != nil {
		q.where("sl.status = " + q.arg(string(*f.Status)))
	}

	sql := `
		SELECT
			sl.id, sl.employee_id, sl.scan_time, sl.status,
			host(sl.ip_address) AS ip_address, sl.user_agent, sl.additional_info,
			e.name AS employee_name, e.department
		FROM scan_logs sl
		LEFT JOIN employees e ON sl.employee_id = e.employee_id` +
		q.whereSQL() + `
		ORDER BY sl.scan_time DESC, sl.id DESC`
	sql += ` LIMIT ` + q.arg(f.Limit) + ` OFFSET ` + q.arg(f.Offset)

	return sql, q.args
}

func scanStatsQuery(r models.DateRange) (string, []any) {
	var q query
	if r.Start != nil {
		q.where("DATE(scan_time) >= " + q.arg(*r.Start) + "::date")
	}
	if r.End != nil {
		q.where("DATE(scan_time) <= " + q.arg(*r.End) + "::date")
	}

	sql := `
		SELECT
			status,
			COUNT(*) AS count,
			to_char(DATE(scan_time), 'YYYY-MM-DD') AS scan_date
		FROM scan_logs` +
		q.whereSQL() + `
		GROUP BY status, DATE(scan_time)
		ORDER BY DATE(scan_time) DESC, status`

	return sql, q.args
}
