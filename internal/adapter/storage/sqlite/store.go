package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/port"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const jobColumns = `id, original_filename, original_format, target_format, status,
	input_path, output_path, file_size, conversion_kind, error_message, created_at`

// Store is a JobStore backed by a local SQLite database.
type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA cache_size = -8000", // 8MB
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "docforge.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; WAL keeps readers unblocked.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	j := job.Clone()
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = domain.JobStatusUploaded
	}
	if j.TargetFormat == "" {
		j.TargetFormat = domain.PendingTargetFormat
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now()
	}
	j.OutputPath = ""

	_, err := s.db.ExecContext(ctx, `INSERT INTO conversion_jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.OriginalFilename, j.OriginalFormat, j.TargetFormat, string(j.Status),
		j.InputPath, j.OutputPath, j.FileSize, string(j.ConversionKind), j.ErrorMessage,
		j.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return j, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM conversion_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// Update applies the non-nil patch fields in a single statement.
func (s *Store) Update(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.TargetFormat != nil {
		add("target_format", *patch.TargetFormat)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.OutputPath != nil {
		add("output_path", *patch.OutputPath)
	}
	if patch.ConversionKind != nil {
		add("conversion_kind", string(*patch.ConversionKind))
	}
	if patch.ErrorMessage != nil {
		add("error_message", *patch.ErrorMessage)
	}

	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, `UPDATE conversion_jobs SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return nil, domain.ErrJobNotFound
		}
	}

	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversion_jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// List returns all jobs, oldest first.
func (s *Store) List(ctx context.Context) ([]*domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM conversion_jobs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		j         domain.Job
		status    string
		kind      string
		createdAt int64
	)
	err := row.Scan(
		&j.ID, &j.OriginalFilename, &j.OriginalFormat, &j.TargetFormat, &status,
		&j.InputPath, &j.OutputPath, &j.FileSize, &kind, &j.ErrorMessage, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	j.Status = domain.JobStatus(status)
	j.ConversionKind = domain.ConversionKind(kind)
	j.CreatedAt = time.Unix(0, createdAt)
	return &j, nil
}

var _ port.JobStore = (*Store)(nil)
