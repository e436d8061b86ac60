package port

import (
	"context"
	"io"
	"time"

	"github.com/bnema/docforge/internal/domain"
)

type JobStore interface {
	Get(ctx context.Context, id string) (*domain.Job, error)
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	Update(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Job, error)
}

// ArtifactStore owns the on-disk locations of uploads, outputs and scratch space.
type ArtifactStore interface {
	SaveUpload(originalFilename string, src io.Reader) (path string, size int64, err error)
	// NewOutputDir creates a directory that holds one conversion's outputs.
	NewOutputDir() (string, error)
	NewWorkDir(prefix string) (string, error)
	Exists(path string) bool
	Remove(paths ...string)
	// ReleaseOutput removes an output file together with its conversion directory.
	ReleaseOutput(path string)
	// Stale lists uploads, conversion directories and scratch directories
	// last modified before cutoff.
	Stale(cutoff time.Time) ([]string, error)
}
