package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS scan_logs (
		id SERIAL PRIMARY KEY,
		employee_id TEXT NOT NULL,
		scan_time TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(20) NOT NULL CHECK(status IN ('SUCCESS', 'DENIED', 'ERROR')),
		ip_address INET,
		user_agent TEXT,
		additional_info TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id SERIAL PRIMARY KEY,
		employee_id VARCHAR(50) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		department VARCHAR(100),
		position VARCHAR(100),
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS system_settings (
		id SERIAL PRIMARY KEY,
		setting_key VARCHAR(100) UNIQUE NOT NULL,
		setting_value TEXT NOT NULL,
		description TEXT,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	// tables created before scan ids became TEXT and timestamps carried a zone
	`DO $$
	BEGIN
		IF EXISTS (SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = 'scan_logs'
			AND column_name = 'employee_id' AND data_type <> 'text') THEN
			ALTER TABLE scan_logs ALTER COLUMN employee_id TYPE TEXT;
		END IF;
		IF EXISTS (SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = 'scan_logs'
			AND column_name = 'scan_time' AND data_type = 'timestamp without time zone') THEN
			ALTER TABLE scan_logs ALTER COLUMN scan_time TYPE TIMESTAMPTZ;
		END IF;
		IF EXISTS (SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = 'employees'
			AND column_name = 'created_at' AND data_type = 'timestamp without time zone') THEN
			ALTER TABLE employees
				ALTER COLUMN created_at TYPE TIMESTAMPTZ,
				ALTER COLUMN updated_at TYPE TIMESTAMPTZ;
		END IF;
	END
	$$`,
	`CREATE INDEX IF NOT EXISTS idx_scan_logs_employee_id ON scan_logs(employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_logs_scan_time ON scan_logs(scan_time)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_employee_id ON employees(employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_is_active ON employees(is_active)`,
	`CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = CURRENT_TIMESTAMP;
		RETURN NEW;
	END;
	$$ language 'plpgsql'`,
	`DROP TRIGGER IF EXISTS update_employees_updated_at ON employees`,
	`CREATE TRIGGER update_employees_updated_at
		BEFORE UPDATE ON employees
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column()`,
}

type seedEmployee struct {
	employeeID, name, department, position string
}

// sampleEmployees are inserted when the registry is empty.
var sampleEmployees = []seedEmployee{
	{"EMP001", "John Doe", "IT", "Software Developer"},
	{"EMP002", "Jane Smith", "HR", "HR Manager"},
	{"EMP003", "Bob Johnson", "Finance", "Accountant"},
	{"EMP004", "Alice Brown", "IT", "System Administrator"},
	{"EMP005", "Charlie Wilson", "Marketing", "Marketing Specialist"},
}

// InitSchema idempotently creates tables, indexes and the updated_at trigger,
// then seeds the sample employees if the registry is empty. Everything runs
// in one transaction.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	seeded, err := seedEmployees(ctx, tx)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}

	if seeded > 0 {
		log.Infof("sample employees data inserted (%d rows)", seeded)
	}
	log.Info("database initialized successfully")
	return nil
}

func seedEmployees(ctx context.Context, tx pgx.Tx) (int, error) {
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range sampleEmployees {
		batch.Queue(`
			INSERT INTO employees (employee_id, name, department, position)
			VALUES ($1, $2, $3, $4)
		`, e.employeeID, e.name, e.department, e.position)
	}

	br := tx.SendBatch(ctx, batch)
	for range sampleEmployees {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("seed employees: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("seed employees: %w", err)
	}

	return len(sampleEmployees), nil
}
