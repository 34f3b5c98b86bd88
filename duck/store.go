// Package duck implements tableagent.Store on an in-memory DuckDB
// database. CSV files are materialized as tables with CREATE OR REPLACE
// TABLE ... AS SELECT * FROM read_csv_auto(...), so generated SQL runs
// against real typed columns.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/tableagent/tableagent"
)

// Interface compliance check.
var _ tableagent.Store = (*Store)(nil)

// Store executes SQL against an in-memory DuckDB database.
type Store struct {
	db       *sql.DB
	rowLimit int
}

// Option configures a [Store].
type Option func(*Store)

// WithRowLimit caps the number of rows any query can return. Queries are
// wrapped in SELECT * FROM (...) LIMIT n. Zero means no cap.
func WithRowLimit(n int) Option {
	return func(s *Store) { s.rowLimit = n }
}

// Open creates a Store backed by a fresh in-memory DuckDB database.
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("duck: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("duck: ping: %w", err)
	}
	return New(db, opts...), nil
}

// New creates a Store over an existing database handle. Useful for tests.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load materializes the CSV file(s) matched by req.DataPath as tables.
// The path may be a literal file or a doublestar glob pattern; every match
// becomes a table named after its base filename. req.Description is
// attached to each returned Table.
func (s *Store) Load(ctx context.Context, req tableagent.LoadRequest) ([]tableagent.Table, error) {
	paths, err := expandPaths(req.DataPath)
	if err != nil {
		return nil, fmt.Errorf("duck: expand %q: %w", req.DataPath, err)
	}

	tables := make([]tableagent.Table, 0, len(paths))
	for _, path := range paths {
		name := tableNameFromPath(path)
		createSQL := fmt.Sprintf(
			"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto(%s)",
			quoteIdent(name), quoteString(path),
		)
		if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
			return nil, fmt.Errorf("duck: load %q: %w", path, err)
		}

		cols, err := s.Describe(ctx, name)
		if err != nil {
			return nil, err
		}

		tables = append(tables, tableagent.Table{
			Name:        name,
			Path:        path,
			Description: req.Description,
			Columns:     cols,
		})
	}
	return tables, nil
}

// Query executes a SQL string and returns all rows. Trailing semicolons
// are stripped and the configured row limit is applied as a hard cap.
func (s *Store) Query(ctx context.Context, sqlText string) (*tableagent.Result, error) {
	sqlText = stripTrailingSemicolons(sqlText)
	if sqlText == "" {
		return nil, fmt.Errorf("duck: empty query")
	}
	if s.rowLimit > 0 {
		sqlText = fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d", sqlText, s.rowLimit)
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("duck: execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("duck: query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("duck: scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duck: iterate rows: %w", err)
	}

	return &tableagent.Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

// Tables lists the loaded table names in the main schema.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'main'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("duck: list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("duck: scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duck: iterate tables: %w", err)
	}
	return names, nil
}

// Describe returns column metadata for a loaded table, in column order.
func (s *Store) Describe(ctx context.Context, table string) ([]tableagent.Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'main' AND table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("duck: describe %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []tableagent.Column
	for rows.Next() {
		var c tableagent.Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("duck: scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duck: iterate columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("duck: table %q not found", table)
	}
	return cols, nil
}

// expandPaths resolves a literal path or doublestar glob pattern to the
// list of matching files. Literal paths are returned as-is so missing
// files surface as load errors rather than silent empty matches.
func expandPaths(path string) ([]string, error) {
	if !isGlobPattern(path) {
		return []string{path}, nil
	}
	matches, err := doublestar.FilepathGlob(path)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern")
	}
	return matches, nil
}

func isGlobPattern(path string) bool {
	for _, r := range path {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
