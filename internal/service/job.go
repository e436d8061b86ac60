package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
)

// RetrievalScheduler arms cleanup for a job whose output has been handed out.
type RetrievalScheduler interface {
	Schedule(jobID string)
}

// ConvertRequest asks for one conversion of an uploaded job. AdditionalJobIDs
// name further uploads whose inputs follow the job's own, for multi-input kinds.
type ConvertRequest struct {
	JobID            string
	Kind             string
	AdditionalJobIDs []string
}

// JobService drives jobs through upload, conversion and retrieval.
type JobService struct {
	store     port.JobStore
	artifacts port.ArtifactStore
	converter port.DocumentConverter
	archiver  port.Archiver
	events    EventPublisher
	retention RetrievalScheduler

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewJobService(
	store port.JobStore,
	artifacts port.ArtifactStore,
	converter port.DocumentConverter,
	archiver port.Archiver,
	events EventPublisher,
	retention RetrievalScheduler,
) *JobService {
	return &JobService{
		store:     store,
		artifacts: artifacts,
		converter: converter,
		archiver:  archiver,
		events:    events,
		retention: retention,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *JobService) Upload(ctx context.Context, filename string, src io.Reader) (*domain.Job, error) {
	path, size, err := s.artifacts.SaveUpload(filename, src)
	if err != nil {
		logger.Error.Printf("failed to save upload %s: %v", logger.SanitizeForLog(filename), err)
		return nil, err
	}

	job, err := s.store.Create(ctx, domain.NewJob(filename, path, size))
	if err != nil {
		s.artifacts.Remove(path)
		logger.Error.Printf("failed to register upload %s: %v", logger.SanitizeForLog(filename), err)
		return nil, fmt.Errorf("failed to register upload: %w", err)
	}

	logger.Info.Printf("job created: id=%s, filename=%s, size=%s", job.ID, logger.SanitizeForLog(filename), domain.FormatSize(size))
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	return s.store.Get(ctx, id)
}

// Convert runs req to completion and returns the completed job. Every rejection
// that happens before the job enters converting leaves the registry untouched.
// Once converting, the job always ends completed or failed, even if ctx is
// cancelled, and a conversion failure is returned as is.
func (s *JobService) Convert(ctx context.Context, req ConvertRequest) (*domain.Job, error) {
	kind, err := domain.ParseConversionKind(req.Kind)
	if err != nil {
		return nil, err
	}

	job, err := s.store.Get(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !job.CanStartConversion() {
		return nil, fmt.Errorf("%w: job is %s", domain.ErrInvalidTransition, job.Status)
	}
	if !s.artifacts.Exists(job.InputPath) {
		return nil, domain.ErrArtifactMissing
	}

	additional, err := s.additionalInputs(ctx, kind, req.AdditionalJobIDs)
	if err != nil {
		return nil, err
	}

	if !s.acquire(job.ID) {
		return nil, domain.ErrConversionInProgress
	}
	defer s.release(job.ID)

	// The conversion outlives the request that started it.
	ctx = context.WithoutCancel(ctx)

	job, err = s.store.Update(ctx, job.ID, domain.ConvertingPatch(kind))
	if err != nil {
		return nil, err
	}
	s.publish(job)
	logger.Info.Printf("converting job %s: %s", job.ID, kind)

	output, convErr := s.run(ctx, job, kind, additional)
	if convErr != nil {
		logger.Error.Printf("job %s failed: %v", job.ID, convErr)
		if failed, err := s.store.Update(ctx, job.ID, domain.FailedPatch(convErr)); err != nil {
			logger.Error.Printf("failed to record failure for job %s: %v", job.ID, err)
		} else {
			s.publish(failed)
		}
		return nil, convErr
	}

	completed, err := s.store.Update(ctx, job.ID, domain.CompletedPatch(output))
	if err != nil {
		s.artifacts.ReleaseOutput(output)
		return nil, err
	}
	s.publish(completed)
	logger.Info.Printf("job %s completed: %s", job.ID, filepath.Base(output))
	return completed, nil
}

func (s *JobService) additionalInputs(ctx context.Context, kind domain.ConversionKind, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if !kind.AcceptsMultipleInputs() {
		return nil, fmt.Errorf("%w: %s takes a single input", domain.ErrUnsupportedConversion, kind)
	}

	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		extra, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("additional job %s: %w", id, err)
		}
		if !s.artifacts.Exists(extra.InputPath) {
			return nil, fmt.Errorf("additional job %s: %w", id, domain.ErrArtifactMissing)
		}
		paths = append(paths, extra.InputPath)
	}
	return paths, nil
}

// run dispatches the conversion and reduces its outputs to a single artifact.
func (s *JobService) run(ctx context.Context, job *domain.Job, kind domain.ConversionKind, additional []string) (string, error) {
	outputs, err := s.converter.Convert(ctx, domain.ConversionRequest{
		Kind:             kind,
		InputPath:        job.InputPath,
		OriginalFilename: job.OriginalFilename,
		AdditionalInputs: additional,
	})
	if err != nil {
		return "", err
	}

	switch len(outputs) {
	case 0:
		return "", &domain.ConversionError{Kind: kind, Err: domain.ErrNoOutput}
	case 1:
		return outputs[0], nil
	}

	bundle := filepath.Join(filepath.Dir(outputs[0]), fmt.Sprintf("%s-%s.zip", domain.BaseName(job.OriginalFilename), kind))
	if err := s.archiver.Archive(bundle, outputs); err != nil {
		s.artifacts.Remove(outputs...)
		// Drops the partial bundle together with its conversion directory.
		s.artifacts.ReleaseOutput(bundle)
		if !errors.Is(err, domain.ErrArchivingFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrArchivingFailed, err)
		}
		return "", &domain.ConversionError{Kind: kind, Err: err}
	}
	s.artifacts.Remove(outputs...)
	return bundle, nil
}

// Download returns a completed job whose output is still on disk. A job that
// has not completed yields ErrOutputNotReady; a completed job whose output is
// gone yields ErrArtifactMissing.
func (s *JobService) Download(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return nil, domain.ErrOutputNotReady
	}
	if !s.artifacts.Exists(job.OutputPath) {
		return nil, fmt.Errorf("%w: output of job %s", domain.ErrArtifactMissing, job.ID)
	}
	return job, nil
}

// Retrieved records that the job's output has been delivered.
func (s *JobService) Retrieved(id string) {
	if s.retention != nil {
		s.retention.Schedule(id)
	}
}

// InFlight reports whether a conversion for the job is running in this process.
func (s *JobService) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, busy := s.inFlight[id]
	return busy
}

func (s *JobService) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *JobService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, id)
}

func (s *JobService) publish(job *domain.Job) {
	if s.events != nil {
		s.events.Publish(job.ID, Event{Type: EventStatus, Job: job})
	}
}
