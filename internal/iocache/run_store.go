package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run history.
const (
	runsTable          = "gradestat_runs"
	courseResultsTable = "gradestat_course_results"
)

// RunStoreImpl implements the RunStore interface on top of database/sql.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// driverFor maps a backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a connection for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, "", err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetRunsDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.SQLiteBackend:
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		case schema.MySQLBackend:
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		default:
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
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
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, connStr, nil
}

// NewRunStore creates a new RunStore with the specified backend.
// NoneBackend yields a store whose operations do nothing.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}

	db, resolved, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	driverName, _ := driverFor(backend)

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    resolved,
	}, nil
}

// createRunTables creates the run history tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{courseResultsTable, getCreateCourseResultsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for gradestat_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				input_path VARCHAR(1024) NOT NULL,
				rows_read INT,
				rows_skipped INT,
				group_count INT,
				summary_count INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				input_path TEXT NOT NULL,
				rows_read INT,
				rows_skipped INT,
				group_count INT,
				summary_count INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				input_path TEXT NOT NULL,
				rows_read INTEGER,
				rows_skipped INTEGER,
				group_count INTEGER,
				summary_count INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateCourseResultsQuery returns the CREATE TABLE query for gradestat_course_results.
func getCreateCourseResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(courseResultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				course_id VARCHAR(512) NOT NULL,
				code VARCHAR(128) NOT NULL,
				instructor VARCHAR(255) NOT NULL,
				total_students INT NOT NULL,
				semester_count INT NOT NULL,
				gpa DOUBLE NOT NULL,
				median_gpa DOUBLE NOT NULL,
				std_dev DOUBLE NOT NULL,
				PRIMARY KEY (run_id, course_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				course_id TEXT NOT NULL,
				code TEXT NOT NULL,
				instructor TEXT NOT NULL,
				total_students INT NOT NULL,
				semester_count INT NOT NULL,
				gpa DOUBLE PRECISION NOT NULL,
				median_gpa DOUBLE PRECISION NOT NULL,
				std_dev DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, course_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				course_id TEXT NOT NULL,
				code TEXT NOT NULL,
				instructor TEXT NOT NULL,
				total_students INTEGER NOT NULL,
				semester_count INTEGER NOT NULL,
				gpa REAL NOT NULL,
				median_gpa REAL NOT NULL,
				std_dev REAL NOT NULL,
				PRIMARY KEY (run_id, course_id)
			);
		`, quotedTableName)
	}
}

// disabled reports whether operations should be skipped.
func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// placeholders returns n bind parameters in the backend's syntax.
func (rs *RunStoreImpl) placeholders(n int) []any {
	out := make([]any, n)
	for i := range out {
		if rs.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, inputPath string, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, input_path, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, inputPath, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, input_path, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), inputPath, string(configJSON))
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

// RecordSummary stores one published course summary for a run.
func (rs *RunStoreImpl) RecordSummary(runID int64, summary schema.CourseSummary) error {
	if rs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, course_id, code, instructor, total_students,
		                semester_count, gpa, median_gpa, std_dev)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)
	`, append([]any{quoteTableName(courseResultsTable, rs.backend)}, rs.placeholders(9)...)...)

	_, err := rs.db.Exec(query,
		runID, summary.ID, summary.Code, summary.Instructor, summary.TotalStudents,
		len(summary.Semesters), summary.GPAValue(), summary.MedianValue(), summary.StdDevValue(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert course result %s: %w", summary.ID, err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, stats schema.RunStats) error {
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, append([]any{quotedTableName}, rs.placeholders(1)...)...)

	startTime, err := rs.scanTime(rs.db.QueryRow(selectQuery, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, rows_read = %s,
		rows_skipped = %s, group_count = %s, summary_count = %s WHERE run_id = %s`,
		append([]any{quotedTableName}, rs.placeholders(7)...)...)

	_, err = rs.db.Exec(updateQuery,
		formatTime(endTime, rs.backend), durationMs, stats.RowsRead,
		stats.RowsSkipped, stats.Groups, stats.Emitted, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// scanTime reads one time column, which SQLite stores as RFC 3339 text.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if rs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		var err error
		lastTimeQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if status.LastRunTime, err = rs.scanTime(rs.db.QueryRow(lastTimeQuery)); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if status.OldestRunTime, err = rs.scanTime(rs.db.QueryRow(oldestQuery)); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		summariesQuery := fmt.Sprintf("SELECT COALESCE(SUM(summary_count), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(summariesQuery).Scan(&status.TotalSummaries); err != nil {
			return status, fmt.Errorf("failed to get total summaries: %w", err)
		}
	}

	for _, table := range []string{runsTable, courseResultsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	status.DatabaseSizeKiB = rs.databaseSizeBytes() / 1024
	return status, nil
}

// databaseSizeBytes estimates the storage used by the run tables.
// Falls back to zero when the backend cannot report it.
func (rs *RunStoreImpl) databaseSizeBytes() int64 {
	var size int64
	switch rs.backend {
	case schema.SQLiteBackend:
		row := rs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			return 0
		}
		sizeQuery := "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ? AND table_name IN (?, ?)"
		if err := rs.db.QueryRow(sizeQuery, cfg.DBName, runsTable, courseResultsTable).Scan(&size); err != nil {
			return 0
		}
	case schema.PostgreSQLBackend:
		sizeQuery := "SELECT pg_total_relation_size($1) + pg_total_relation_size($2)"
		if err := rs.db.QueryRow(sizeQuery, runsTable, courseResultsTable).Scan(&size); err != nil {
			return 0
		}
	}
	return size
}

// GetAllRuns retrieves all runs from the store in ID order.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, input_path,
		COALESCE(rows_read, 0), COALESCE(rows_skipped, 0), COALESCE(group_count, 0),
		COALESCE(summary_count, 0), config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.InputPath,
				&record.RowsRead, &record.RowsSkipped, &record.GroupCount, &record.SummaryCount, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.InputPath,
				&record.RowsRead, &record.RowsSkipped, &record.GroupCount, &record.SummaryCount, &record.ConfigParams); err != nil {
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

// GetAllCourseResults retrieves every recorded summary row in run order.
func (rs *RunStoreImpl) GetAllCourseResults() ([]schema.CourseRunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, course_id, code, instructor, total_students,
		semester_count, gpa, median_gpa, std_dev
		FROM %s ORDER BY run_id, course_id`, quoteTableName(courseResultsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query course results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CourseRunRecord
	for rows.Next() {
		var r schema.CourseRunRecord
		if err := rows.Scan(&r.RunID, &r.CourseID, &r.Code, &r.Instructor, &r.TotalStudents,
			&r.SemesterCount, &r.GPA, &r.MedianGPA, &r.StdDev); err != nil {
			return nil, fmt.Errorf("failed to scan course result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course results: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}
