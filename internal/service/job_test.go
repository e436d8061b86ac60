package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/docforge/internal/adapter/archive"
	"github.com/bnema/docforge/internal/adapter/storage/filesystem"
	"github.com/bnema/docforge/internal/adapter/storage/memory"
	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/port/mocks"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceEnv struct {
	service   *JobService
	store     *memory.Store
	artifacts *filesystem.Store
	bus       *EventBus
}

func newServiceEnv(t *testing.T, converter *mocks.DocumentConverterMock) serviceEnv {
	t.Helper()
	dataDir := t.TempDir()
	artifacts, err := filesystem.NewStore(dataDir)
	require.NoError(t, err)

	store := memory.NewStore()
	bus := NewEventBus()
	return serviceEnv{
		service:   NewJobService(store, artifacts, converter, archive.NewZipArchiver(), bus, nil),
		store:     store,
		artifacts: artifacts,
		bus:       bus,
	}
}

func (e serviceEnv) upload(t *testing.T, name, content string) *domain.Job {
	t.Helper()
	job, err := e.service.Upload(context.Background(), name, strings.NewReader(content))
	require.NoError(t, err)
	return job
}

// writeOutputs stands in for a strategy: it creates files in a fresh output dir.
func (e serviceEnv) writeOutputs(t *testing.T, names ...string) []string {
	t.Helper()
	dir, err := e.artifacts.NewOutputDir()
	require.NoError(t, err)

	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte(n), 0644))
		paths = append(paths, p)
	}
	return paths
}

func TestJobService_Upload(t *testing.T) {
	env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))

	job := env.upload(t, "Annual Report.PDF", "%PDF-1.7 body")

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Annual Report.PDF", job.OriginalFilename)
	assert.Equal(t, "pdf", job.OriginalFormat)
	assert.Equal(t, domain.PendingTargetFormat, job.TargetFormat)
	assert.Equal(t, domain.JobStatusUploaded, job.Status)
	assert.Equal(t, int64(len("%PDF-1.7 body")), job.FileSize)
	assert.FileExists(t, job.InputPath)
	assert.Equal(t, ".pdf", filepath.Ext(job.InputPath))
}

func TestJobService_Upload_RegistryFailureRemovesFile(t *testing.T) {
	dataDir := t.TempDir()
	artifacts, err := filesystem.NewStore(dataDir)
	require.NoError(t, err)

	store := mocks.NewJobStoreMock(t)
	store.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

	svc := NewJobService(store, artifacts, mocks.NewDocumentConverterMock(t), archive.NewZipArchiver(), nil, nil)

	_, err = svc.Upload(context.Background(), "a.pdf", strings.NewReader("x"))

	assert.ErrorContains(t, err, "disk full")
	entries, err := os.ReadDir(filepath.Join(dataDir, "uploads"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJobService_Convert_RejectionsLeaveRegistryUntouched(t *testing.T) {
	ctx := context.Background()

	t.Run("missing job", func(t *testing.T) {
		store := mocks.NewJobStoreMock(t)
		store.EXPECT().Get(mock.Anything, "ghost").Return(nil, domain.ErrJobNotFound).Once()
		svc := NewJobService(store, nil, mocks.NewDocumentConverterMock(t), nil, nil, nil)

		job, err := svc.Convert(ctx, ConvertRequest{JobID: "ghost", Kind: "pdf-text"})

		assert.ErrorIs(t, err, domain.ErrJobNotFound)
		assert.Nil(t, job)
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc := NewJobService(mocks.NewJobStoreMock(t), nil, mocks.NewDocumentConverterMock(t), nil, nil, nil)

		_, err := svc.Convert(ctx, ConvertRequest{JobID: "any", Kind: "pdf-to-gif"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)
	})

	for _, status := range []domain.JobStatus{domain.JobStatusCompleted, domain.JobStatusFailed} {
		t.Run("terminal "+string(status), func(t *testing.T) {
			env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))
			job := env.upload(t, "a.pdf", "x")
			_, err := env.store.Update(ctx, job.ID, domain.JobPatch{Status: &status})
			require.NoError(t, err)

			_, err = env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: "pdf-text"})

			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			got, _ := env.store.Get(ctx, job.ID)
			assert.Equal(t, status, got.Status)
			assert.Equal(t, domain.PendingTargetFormat, got.TargetFormat)
		})
	}

	t.Run("input artifact gone", func(t *testing.T) {
		env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))
		job := env.upload(t, "a.pdf", "x")
		require.NoError(t, os.Remove(job.InputPath))

		_, err := env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: "pdf-text"})

		assert.ErrorIs(t, err, domain.ErrArtifactMissing)
		got, _ := env.store.Get(ctx, job.ID)
		assert.Equal(t, domain.JobStatusUploaded, got.Status)
	})

	t.Run("extra inputs for single input kind", func(t *testing.T) {
		env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))
		a := env.upload(t, "a.pdf", "x")
		b := env.upload(t, "b.pdf", "y")

		_, err := env.service.Convert(ctx, ConvertRequest{JobID: a.ID, Kind: "pdf-text", AdditionalJobIDs: []string{b.ID}})

		assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)
	})

	t.Run("unknown additional job", func(t *testing.T) {
		env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))
		a := env.upload(t, "a.pdf", "x")

		_, err := env.service.Convert(ctx, ConvertRequest{JobID: a.ID, Kind: "pdf-merge", AdditionalJobIDs: []string{"ghost"}})

		assert.ErrorIs(t, err, domain.ErrJobNotFound)
		got, _ := env.store.Get(ctx, a.ID)
		assert.Equal(t, domain.JobStatusUploaded, got.Status)
	})
}

func TestJobService_Convert_Success(t *testing.T) {
	ctx := context.Background()
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	job := env.upload(t, "letter.docx", "docx bytes")
	events := env.bus.Subscribe(job.ID)

	outputs := env.writeOutputs(t, "letter.pdf")
	converter.EXPECT().Convert(mock.Anything, domain.ConversionRequest{
		Kind:             domain.KindWordToPDF,
		InputPath:        job.InputPath,
		OriginalFilename: "letter.docx",
	}).Return(outputs, nil).Once()

	got, err := env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: " word-to-pdf "})

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	assert.Equal(t, "pdf", got.TargetFormat)
	assert.Equal(t, domain.KindWordToPDF, got.ConversionKind)
	assert.Equal(t, outputs[0], got.OutputPath)
	assert.NoError(t, got.Validate())

	require.Len(t, events, 2)
	assert.Equal(t, domain.JobStatusConverting, (<-events).Job.Status)
	assert.Equal(t, domain.JobStatusCompleted, (<-events).Job.Status)

	downloadable, err := env.service.Download(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, outputs[0], downloadable.OutputPath)
}

func TestJobService_Convert_BundlesMultipleOutputs(t *testing.T) {
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	job := env.upload(t, "book.pdf", "pdf")

	pages := env.writeOutputs(t, "book-page-1.pdf", "book-page-2.pdf", "book-page-3.pdf")
	converter.EXPECT().Convert(mock.Anything, mock.Anything).Return(pages, nil).Once()

	got, err := env.service.Convert(context.Background(), ConvertRequest{JobID: job.ID, Kind: "pdf-split"})

	require.NoError(t, err)
	assert.Equal(t, "book-pdf-split.zip", filepath.Base(got.OutputPath))
	assert.Equal(t, "zip", got.TargetFormat)
	for _, p := range pages {
		assert.NoFileExists(t, p)
	}

	r, err := zip.OpenReader(got.OutputPath)
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck
	require.Len(t, r.File, 3)
	assert.Equal(t, "book-page-1.pdf", r.File[0].Name)
	assert.Equal(t, "book-page-3.pdf", r.File[2].Name)
}

// brokenArchiver leaves a partial archive behind and then fails.
type brokenArchiver struct{}

func (brokenArchiver) Archive(dst string, _ []string) error {
	_ = os.WriteFile(dst, []byte("partial"), 0644)
	return errors.New("disk full")
}

func TestJobService_Convert_BundlingFailureCleansUp(t *testing.T) {
	ctx := context.Background()
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	env.service = NewJobService(env.store, env.artifacts, converter, brokenArchiver{}, env.bus, nil)
	job := env.upload(t, "book.pdf", "pdf")

	pages := env.writeOutputs(t, "book-page-1.pdf", "book-page-2.pdf")
	convertedDir := filepath.Dir(filepath.Dir(pages[0]))
	converter.EXPECT().Convert(mock.Anything, mock.Anything).Return(pages, nil).Once()

	got, err := env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: "pdf-split"})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrArchivingFailed)
	assert.ErrorContains(t, err, "disk full")

	entries, err := os.ReadDir(convertedDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no conversion directory survives a failed bundle")

	stored, err := env.store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, stored.Status)
	assert.Empty(t, stored.OutputPath)
}

func TestJobService_Convert_FailureRecorded(t *testing.T) {
	ctx := context.Background()
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	job := env.upload(t, "slides.pdf", "pdf")

	convErr := &domain.ConversionError{Kind: domain.KindPDFToPNG, Err: domain.ErrRenderingFailed}
	converter.EXPECT().Convert(mock.Anything, mock.Anything).Return(nil, convErr).Once()

	got, err := env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: "pdf-to-png"})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrRenderingFailed)

	stored, err := env.store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, stored.Status)
	assert.Empty(t, stored.OutputPath)
	assert.Equal(t, "pdf-to-png: rendering failed", stored.ErrorMessage)
	assert.NoError(t, stored.Validate())

	_, err = env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: "pdf-to-png"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no transition out of failed")

	_, err = env.service.Download(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrOutputNotReady)
}

func TestJobService_Convert_MergePassesAdditionalInputs(t *testing.T) {
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	a := env.upload(t, "a.pdf", "a")
	b := env.upload(t, "b.pdf", "b")
	c := env.upload(t, "c.pdf", "c")

	merged := env.writeOutputs(t, "a-merged.pdf")
	converter.EXPECT().Convert(mock.Anything, mock.MatchedBy(func(req domain.ConversionRequest) bool {
		return req.InputPath == a.InputPath &&
			assert.ObjectsAreEqual([]string{b.InputPath, c.InputPath}, req.AdditionalInputs)
	})).Return(merged, nil).Once()

	got, err := env.service.Convert(context.Background(), ConvertRequest{
		JobID:            a.ID,
		Kind:             "pdf-merge",
		AdditionalJobIDs: []string{b.ID, c.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, merged[0], got.OutputPath)
}

func TestJobService_Convert_RejectsConcurrentConversion(t *testing.T) {
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	job := env.upload(t, "a.pdf", "x")

	started := make(chan struct{})
	finish := make(chan struct{})
	out := env.writeOutputs(t, "a.txt")
	converter.EXPECT().Convert(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, domain.ConversionRequest) ([]string, error) {
			close(started)
			<-finish
			return out, nil
		}).Once()

	done := make(chan error, 1)
	go func() {
		_, err := env.service.Convert(context.Background(), ConvertRequest{JobID: job.ID, Kind: "pdf-text"})
		done <- err
	}()
	<-started

	_, err := env.service.Convert(context.Background(), ConvertRequest{JobID: job.ID, Kind: "pdf-text"})
	assert.ErrorIs(t, err, domain.ErrConversionInProgress)

	close(finish)
	require.NoError(t, <-done)
}

func TestJobService_Convert_SurvivesCancelledRequest(t *testing.T) {
	converter := mocks.NewDocumentConverterMock(t)
	env := newServiceEnv(t, converter)
	job := env.upload(t, "a.pdf", "x")

	out := env.writeOutputs(t, "a.txt")
	converter.EXPECT().Convert(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ domain.ConversionRequest) ([]string, error) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return out, nil
		}).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := env.service.Convert(ctx, ConvertRequest{JobID: job.ID, Kind: "pdf-text"})

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
}

func TestJobService_Download_NotReady(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))
	job := env.upload(t, "a.pdf", "x")

	_, err := env.service.Download(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrOutputNotReady)

	_, err = env.service.Download(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobService_Download_OutputGone(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, mocks.NewDocumentConverterMock(t))
	job := completedJob(t, env, "report.pdf")
	require.NoError(t, os.Remove(job.OutputPath))

	_, err := env.service.Download(ctx, job.ID)

	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
	assert.NotErrorIs(t, err, domain.ErrOutputNotReady)
}

func TestJobService_InFlight(t *testing.T) {
	svc := NewJobService(memory.NewStore(), nil, nil, nil, nil, nil)

	assert.False(t, svc.InFlight("job-1"))
	require.True(t, svc.acquire("job-1"))
	assert.True(t, svc.InFlight("job-1"))
	svc.release("job-1")
	assert.False(t, svc.InFlight("job-1"))
}

type recordingScheduler struct {
	ids []string
}

func (r *recordingScheduler) Schedule(id string) { r.ids = append(r.ids, id) }

func TestJobService_RetrievedArmsRetention(t *testing.T) {
	sched := &recordingScheduler{}
	svc := NewJobService(memory.NewStore(), nil, nil, nil, nil, sched)

	svc.Retrieved("job-1")

	assert.Equal(t, []string{"job-1"}, sched.ids)
}
