package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/port"
	"github.com/google/uuid"
)

// Store is a process-local job registry. Records do not survive a restart.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*domain.Job),
	}
}

func (s *Store) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[j.ID] = j
	return j.Clone(), nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	return j.Clone(), nil
}

func (s *Store) Update(_ context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	updated := existing.Clone()
	patch.Apply(updated)
	s.jobs[id] = updated

	return updated.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	return nil
}

// List returns all jobs, oldest first.
func (s *Store) List(_ context.Context) ([]*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j.Clone())
	}
	sort.Slice(jobs, func(a, b int) bool {
		return jobs[a].CreatedAt.Before(jobs[b].CreatedAt)
	})

	return jobs, nil
}

var _ port.JobStore = (*Store)(nil)
