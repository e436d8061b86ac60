package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
	"github.com/google/uuid"
)

// Store lays artifacts out under a data directory:
//
//	<dataDir>/uploads    uploaded inputs, named <uuid><ext>
//	<dataDir>/converted  strategy outputs
//	<dataDir>/tmp        per-conversion scratch directories
type Store struct {
	uploadDir    string
	convertedDir string
	tmpDir       string
}

func NewStore(dataDir string) (*Store, error) {
	s := &Store{
		uploadDir:    filepath.Join(dataDir, "uploads"),
		convertedDir: filepath.Join(dataDir, "converted"),
		tmpDir:       filepath.Join(dataDir, "tmp"),
	}
	for _, dir := range []string{s.uploadDir, s.convertedDir, s.tmpDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// SaveUpload copies src to a uniquely named file in the upload area. The
// original extension is kept so external tools can infer the input format.
func (s *Store) SaveUpload(originalFilename string, src io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}

	size, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}

	return path, size, nil
}

// NewOutputDir creates <dataDir>/converted/<uuid> so outputs of different jobs
// never collide even when their original filenames match.
func (s *Store) NewOutputDir() (string, error) {
	dir := filepath.Join(s.convertedDir, uuid.NewString())
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// NewWorkDir creates a fresh scratch directory. Callers own its removal.
func (s *Store) NewWorkDir(prefix string) (string, error) {
	dir, err := os.MkdirTemp(s.tmpDir, prefix+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return dir, nil
}

func (s *Store) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Remove deletes the given paths, ignoring missing files. Failures are logged only.
func (s *Store) Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			logger.Warn.Printf("failed to remove %s: %v", logger.SanitizeForLog(p), err)
		}
	}
}

func (s *Store) ReleaseOutput(path string) {
	if path == "" {
		return
	}
	s.Remove(path)

	dir := filepath.Dir(path)
	if filepath.Dir(dir) == s.convertedDir {
		s.Remove(dir)
	}
}

// Stale lists the top-level entries of the upload, output and scratch areas
// last modified before cutoff.
func (s *Store) Stale(cutoff time.Time) ([]string, error) {
	var stale []string
	for _, dir := range []string{s.uploadDir, s.convertedDir, s.tmpDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				// Removed since ReadDir.
				continue
			}
			if info.ModTime().Before(cutoff) {
				stale = append(stale, filepath.Join(dir, e.Name()))
			}
		}
	}
	return stale, nil
}

var _ port.ArtifactStore = (*Store)(nil)
