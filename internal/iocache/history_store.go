package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run tracking.
const (
	runsTable    = "forecast_runs"
	samplesTable = "forecast_samples"
)

// sampleBatchSize bounds the number of rows per multi-row INSERT.
const sampleBatchSize = 200

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file location is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// openDatabase opens a connection pool for the backend without verifying it.
func openDatabase(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// createHistoryTables creates the run tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{samplesTable, getCreateSamplesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for forecast_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				started_at DATETIME(6) NOT NULL,
				finished_at DATETIME(6),
				run_duration_ms INT,
				scenario VARCHAR(255) NOT NULL,
				item_name VARCHAR(255) NOT NULL,
				sim_start DATETIME(6) NOT NULL,
				sim_end DATETIME(6) NOT NULL,
				final_value DOUBLE,
				sample_count INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ,
				run_duration_ms INT,
				scenario TEXT NOT NULL,
				item_name TEXT NOT NULL,
				sim_start TIMESTAMPTZ NOT NULL,
				sim_end TIMESTAMPTZ NOT NULL,
				final_value DOUBLE PRECISION,
				sample_count INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				started_at TEXT NOT NULL,
				finished_at TEXT,
				run_duration_ms INTEGER,
				scenario TEXT NOT NULL,
				item_name TEXT NOT NULL,
				sim_start TEXT NOT NULL,
				sim_end TEXT NOT NULL,
				final_value REAL,
				sample_count INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSamplesQuery returns the CREATE TABLE query for forecast_samples.
func getCreateSamplesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(samplesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				seq INT NOT NULL,
				instant DATETIME(6) NOT NULL,
				value DOUBLE NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				seq INT NOT NULL,
				instant TIMESTAMPTZ NOT NULL,
				value DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				seq INTEGER NOT NULL,
				instant TEXT NOT NULL,
				value REAL NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)
	}
}

// BeginRun registers a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startedAt time.Time, meta schema.RunMeta, configParams map[string]any) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	args := []any{
		formatTime(startedAt, hs.backend), meta.Scenario, meta.Item,
		formatTime(meta.SimStart, hs.backend), formatTime(meta.SimEnd, hs.backend), string(configJSON),
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (started_at, scenario, item_name, sim_start, sim_end, config_params)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (started_at, scenario, item_name, sim_start, sim_end, config_params)
			VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordSamples stores the trajectory of a run in batches within one transaction.
func (hs *HistoryStoreImpl) RecordSamples(runID int64, samples []schema.Sample) error {
	if hs.backend == schema.NoneBackend || hs.db == nil || len(samples) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin sample transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quotedTableName := quoteTableName(samplesTable, hs.backend)
	for offset := 0; offset < len(samples); offset += sampleBatchSize {
		batch := samples[offset:min(offset+sampleBatchSize, len(samples))]
		query, args := hs.buildSampleInsert(quotedTableName, runID, offset, batch)
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert samples for run %d: %w", runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples for run %d: %w", runID, err)
	}
	return nil
}

// buildSampleInsert builds a multi-row INSERT for one batch of samples.
func (hs *HistoryStoreImpl) buildSampleInsert(quotedTableName string, runID int64, offset int, batch []schema.Sample) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (run_id, seq, instant, value) VALUES ", quotedTableName)

	args := make([]any, 0, len(batch)*4)
	for i, s := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		if hs.backend == schema.PostgreSQLBackend {
			n := len(args)
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		} else {
			sb.WriteString("(?, ?, ?, ?)")
		}
		args = append(args, runID, offset+i, formatTime(s.Instant, hs.backend), s.Value)
	}
	return sb.String(), args
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, finishedAt time.Time, finalValue float64, sampleCount int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = ?`, quotedTableName)
	}

	startedAt, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get started_at for run %d: %w", runID, err)
	}

	durationMs := finishedAt.Sub(startedAt).Milliseconds()

	var updateQuery string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET finished_at = $1, run_duration_ms = $2, final_value = $3, sample_count = $4 WHERE run_id = $5`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET finished_at = ?, run_duration_ms = ?, final_value = ?, sample_count = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := hs.db.Exec(updateQuery, formatTime(finishedAt, hs.backend), durationMs, finalValue, sampleCount, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		lastRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	for _, table := range []string{runsTable, samplesTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalSamples = int(status.TableSizes[samplesTable])

	return status, nil
}

// GetAllRuns retrieves all runs from the store ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, started_at, finished_at, run_duration_ms, scenario, item_name,
		sim_start, sim_end, final_value, sample_count, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startedAt, simStart, simEnd string
			var finishedAt *string
			if err := rows.Scan(&record.RunID, &startedAt, &finishedAt, &record.RunDurationMs, &record.Scenario, &record.ItemName,
				&simStart, &simEnd, &record.FinalValue, &record.SampleCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartedAt, err = parseTime(startedAt); err != nil {
				return nil, fmt.Errorf("failed to parse started_at: %w", err)
			}
			if record.SimStart, err = parseTime(simStart); err != nil {
				return nil, fmt.Errorf("failed to parse sim_start: %w", err)
			}
			if record.SimEnd, err = parseTime(simEnd); err != nil {
				return nil, fmt.Errorf("failed to parse sim_end: %w", err)
			}
			if finishedAt != nil {
				t, err := parseTime(*finishedAt)
				if err != nil {
					return nil, fmt.Errorf("failed to parse finished_at: %w", err)
				}
				record.FinishedAt = &t
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartedAt, &record.FinishedAt, &record.RunDurationMs, &record.Scenario, &record.ItemName,
				&record.SimStart, &record.SimEnd, &record.FinalValue, &record.SampleCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllSamples retrieves every recorded sample ordered by run and sequence.
func (hs *HistoryStoreImpl) GetAllSamples() ([]schema.SampleRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, seq, instant, value FROM %s ORDER BY run_id, seq`, quoteTableName(samplesTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SampleRecord
	for rows.Next() {
		var record schema.SampleRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var instant string
			if err := rows.Scan(&record.RunID, &record.Seq, &instant, &record.Value); err != nil {
				return nil, fmt.Errorf("failed to scan sample: %w", err)
			}
			if record.Instant, err = parseTime(instant); err != nil {
				return nil, fmt.Errorf("failed to parse instant: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Seq, &record.Instant, &record.Value); err != nil {
				return nil, fmt.Errorf("failed to scan sample: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column, handling SQLite's text storage.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}
