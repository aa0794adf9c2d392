package store

import (
	"strings"
	"testing"
	"time"

	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/stretchr/testify/assert"
)

func TestQuery_NoConditions(t *testing.T) {
	var q query
	assert.Equal(t, "", q.whereSQL())
	assert.Empty(t, q.args)
}

func TestQuery_PlaceholdersFollowBindOrder(t *testing.T) {
	var q query
	q.where("sl.employee_id = " + q.arg("EMP001"))
	q.where("sl.status = " + q.arg("DENIED"))
	tail := " LIMIT " + q.arg(10) + " OFFSET " + q.arg(20)

	assert.Equal(t, " WHERE sl.employee_id = $1 AND sl.status = $2", q.whereSQL())
	assert.Equal(t, " LIMIT $3 OFFSET $4", tail)
	assert.Equal(t, []any{"EMP001", "DENIED", 10, 20}, q.args)
}

func TestQuery_ValuesNeverReachText(t *testing.T) {
	var q query
	hostile := "x'; DROP TABLE employees; --"
	q.where("sl.employee_id = " + q.arg(hostile))

	assert.NotContains(t, q.whereSQL(), "DROP")
	assert.Equal(t, []any{hostile}, q.args)
}

func TestQuery_SetList(t *testing.T) {
	var q query
	q.set("name", "Jane")
	q.set("position", "Lead")
	q.where("employee_id = " + q.arg("EMP002"))

	assert.Equal(t, "name = $1, position = $2", q.setSQL())
	assert.Equal(t, " WHERE employee_id = $3", q.whereSQL())
	assert.Equal(t, []any{"Jane", "Lead", "EMP002"}, q.args)
}

func TestScanLogsQuery(t *testing.T) {
	id := "EMP001"
	status := models.ScanDenied

	tests := []struct {
		name     string
		filter   models.ScanLogFilter
		where    string
		tail     string
		wantArgs []any
	}{
		{
			name:     "no filters",
			filter:   models.ScanLogFilter{Limit: 50},
			tail:     "LIMIT $1 OFFSET $2",
			wantArgs: []any{50, 0},
		},
		{
			name:     "employee only",
			filter:   models.ScanLogFilter{Limit: 2, Offset: 2, EmployeeID: &id},
			where:    "WHERE sl.employee_id = $1",
			tail:     "LIMIT $2 OFFSET $3",
			wantArgs: []any{"EMP001", 2, 2},
		},
		{
			name:     "employee and status",
			filter:   models.ScanLogFilter{Limit: 10, EmployeeID: &id, Status: &status},
			where:    "WHERE sl.employee_id = $1 AND sl.status = $2",
			tail:     "LIMIT $3 OFFSET $4",
			wantArgs: []any{"EMP001", "DENIED", 10, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := scanLogsQuery(tt.filter)
			if tt.where == "" {
				assert.NotContains(t, sql, "WHERE")
			} else {
				assert.Contains(t, sql, tt.where)
			}
			assert.Contains(t, sql, "ORDER BY sl.scan_time DESC")
			assert.True(t, strings.HasSuffix(sql, tt.tail), sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestScanStatsQuery(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	sql, args := scanStatsQuery(models.DateRange{})
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)

	sql, args = scanStatsQuery(models.DateRange{End: &end})
	assert.Contains(t, sql, "WHERE DATE(scan_time) <= $1::date")
	assert.Equal(t, []any{end}, args)

	sql, args = scanStatsQuery(models.DateRange{Start: &start, End: &end})
	assert.Contains(t, sql, "WHERE DATE(scan_time) >= $1::date AND DATE(scan_time) <= $2::date")
	assert.Contains(t, sql, "GROUP BY status, DATE(scan_time)")
	assert.Equal(t, []any{start, end}, args)
}

func TestUpdateFieldsQuery(t *testing.T) {
	_, _, ok := updateFieldsQuery("EMP001", models.EmployeeUpdate{})
	assert.False(t, ok)

	name := "Johnny"
	dept := ""
	sql, args, ok := updateFieldsQuery("EMP001", models.EmployeeUpdate{Name: &name, Department: &dept})
	assert.True(t, ok)
	assert.Equal(t, "UPDATE employees SET name = $1, department = $2 WHERE employee_id = $3", sql)
	assert.Equal(t, []any{"Johnny", "", "EMP001"}, args)
}

func TestScanSummaryQuery(t *testing.T) {
	sql, args := scanSummaryQuery(nil, 30)
	assert.Contains(t, sql, "make_interval(days => $1::int)")
	assert.Contains(t, sql, "WHERE e.is_active = TRUE")
	assert.Equal(t, []any{30}, args)

	id := "EMP003"
	sql, args = scanSummaryQuery(&id, 7)
	assert.Contains(t, sql, "WHERE e.is_active = TRUE AND e.employee_id = $2")
	assert.Equal(t, []any{7, "EMP003"}, args)
}
