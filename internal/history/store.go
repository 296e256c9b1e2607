package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	goroots "github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/history/migrations"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("history: run not found")

// Run is one saved solve: the request, its result and when it happened.
type Run struct {
	ID        string              `json:"id"`
	Request   goroots.Request     `json:"request"`
	Result    goroots.SolveResult `json:"result"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Store is a SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the history database in dir.
// If dir is empty, defaults to ~/.goroots.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".goroots")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")

	// foreign_keys is per connection, so it goes in the DSN for every pooled one
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores a run and its trace in one transaction and returns the new ID.
// solveErr is the error the solver returned alongside res, if any.
func (s *Store) Save(ctx context.Context, req goroots.Request, res goroots.SolveResult, solveErr error) (string, error) {
	id := uuid.NewString()
	errText := ""
	if solveErr != nil {
		errText = solveErr.Error()
	}
	opts := req.Options

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, expression, method, a, b, tolerance, max_iter, root, iterations, converged, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, req.Expression, req.Method.String(), req.A, req.B, opts.Tolerance, opts.MaxIter,
		nullFloat(res.Root), res.Iterations, res.Converged, res.Status.String(), errText,
		time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}

	for _, rec := range res.Trace {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO iterations (run_id, idx, left_val, right_val, estimate, value)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, rec.Index, nullFloat(rec.Left), nullFloat(rec.Right), rec.Estimate, rec.Value)
		if err != nil {
			return "", fmt.Errorf("saving iteration %d: %w", rec.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

const runColumns = `id, expression, method, a, b, tolerance, max_iter, root, iterations, converged, status, error, created_at`

// List returns the most recent runs first, without their traces.
// A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its full trace.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, left_val, right_val, estimate, value
		FROM iterations WHERE run_id = ? ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying iterations: %w", err)
	}
	defer rows.Close()

	trace := goroots.Trace{}
	for rows.Next() {
		var rec goroots.IterationRecord
		var left, right sql.NullFloat64
		if err := rows.Scan(&rec.Index, &left, &right, &rec.Estimate, &rec.Value); err != nil {
			return nil, fmt.Errorf("scanning iteration: %w", err)
		}
		rec.Left = maybe(left)
		rec.Right = maybe(right)
		trace = append(trace, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating iterations: %w", err)
	}
	run.Result.Trace = trace
	return run, nil
}

// Delete removes a run and its trace.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var method, status string
	var root sql.NullFloat64
	if err := row.Scan(&run.ID, &run.Request.Expression, &method, &run.Request.A, &run.Request.B,
		&run.Request.Options.Tolerance, &run.Request.Options.MaxIter, &root,
		&run.Result.Iterations, &run.Result.Converged, &status, &run.Error, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	m, err := goroots.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Request.Method = m
	run.Result.Method = m
	if err := run.Result.Status.UnmarshalText([]byte(status)); err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Result.Root = maybe(root)
	run.Result.Trace = goroots.Trace{}
	return &run, nil
}

func nullFloat(m goroots.MaybeFloat) sql.NullFloat64 {
	v, ok := m.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func maybe(n sql.NullFloat64) goroots.MaybeFloat {
	if !n.Valid {
		return goroots.None()
	}
	return goroots.Some(n.Float64)
}
