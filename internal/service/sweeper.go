package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
)

// RetentionSweeper deletes jobs and their artifacts. A delivered job is purged
// a fixed delay after its download; jobs that are never downloaded are purged
// once they exceed the maximum age.
type RetentionSweeper struct {
	store     port.JobStore
	artifacts port.ArtifactStore
	delay     time.Duration
	maxAge    time.Duration
	now       func() time.Time
	active    func(jobID string) bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewRetentionSweeper(store port.JobStore, artifacts port.ArtifactStore, delay, maxAge time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		store:     store,
		artifacts: artifacts,
		delay:     delay,
		maxAge:    maxAge,
		now:       time.Now,
		timers:    make(map[string]*time.Timer),
	}
}

// Schedule purges the job after the retention delay. Scheduling a job again
// restarts its delay.
func (s *RetentionSweeper) Schedule(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[jobID]; ok {
		t.Stop()
	}
	s.timers[jobID] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, jobID)
		s.mu.Unlock()

		if err := s.Purge(context.Background(), jobID); err != nil {
			logger.Error.Printf("retention cleanup failed for job %s: %v", jobID, err)
		}
	})
	logger.Debug.Printf("job %s scheduled for cleanup in %s", jobID, s.delay)
}

// SkipActive makes the max-age sweep leave alone jobs for which active reports
// true, typically conversions running in this process.
func (s *RetentionSweeper) SkipActive(active func(jobID string) bool) {
	s.active = active
}

func (s *RetentionSweeper) isActive(jobID string) bool {
	return s.active != nil && s.active(jobID)
}

// Purge removes the job's input and output artifacts, then its record. A job
// that is already gone is not an error.
func (s *RetentionSweeper) Purge(ctx context.Context, jobID string) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil
		}
		return err
	}

	s.artifacts.Remove(job.InputPath)
	if job.OutputPath != "" {
		s.artifacts.ReleaseOutput(job.OutputPath)
	}

	if err := s.store.Delete(ctx, jobID); err != nil {
		return err
	}
	logger.Info.Printf("job %s purged", jobID)
	return nil
}

// SweepExpired purges every job older than the maximum age, except those with
// a conversion running in this process. A converting record nobody is working
// on, such as one left by a crash, is purged like any other. Artifacts older
// than the maximum age that no remaining job references are removed as well.
// It returns how many jobs were purged.
func (s *RetentionSweeper) SweepExpired(ctx context.Context) (int, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	purged := 0
	for _, job := range jobs {
		if !job.IsOlderThan(s.maxAge, now) || s.isActive(job.ID) {
			continue
		}
		if err := s.Purge(ctx, job.ID); err != nil {
			logger.Error.Printf("failed to purge expired job %s: %v", job.ID, err)
			continue
		}
		purged++
	}

	if err := s.removeOrphans(ctx, now.Add(-s.maxAge)); err != nil {
		logger.Error.Printf("orphaned artifact sweep failed: %v", err)
	}
	return purged, nil
}

// removeOrphans deletes artifacts last modified before cutoff that no job
// references, such as files left behind by an earlier process.
func (s *RetentionSweeper) removeOrphans(ctx context.Context, cutoff time.Time) error {
	stale, err := s.artifacts.Stale(cutoff)
	if err != nil || len(stale) == 0 {
		return err
	}

	jobs, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]bool, 2*len(jobs))
	for _, job := range jobs {
		referenced[job.InputPath] = true
		if job.OutputPath != "" {
			referenced[filepath.Dir(job.OutputPath)] = true
		}
	}

	var orphans []string
	for _, p := range stale {
		if !referenced[p] {
			orphans = append(orphans, p)
		}
	}
	if len(orphans) > 0 {
		s.artifacts.Remove(orphans...)
		logger.Info.Printf("removed %d orphaned artifact(s)", len(orphans))
	}
	return nil
}

// Start runs the max-age sweep every interval until ctx is done, then stops
// any pending retention timers.
func (s *RetentionSweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.stopTimers()
			return
		case <-ticker.C:
			n, err := s.SweepExpired(ctx)
			if err != nil {
				logger.Error.Printf("expired job sweep failed: %v", err)
				continue
			}
			if n > 0 {
				logger.Info.Printf("expired job sweep removed %d job(s)", n)
			}
		}
	}
}

func (s *RetentionSweeper) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
