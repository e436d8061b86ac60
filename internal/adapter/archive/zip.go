package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/port"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// ZipArchiver writes deflate-compressed zip archives at the highest compression level.
type ZipArchiver struct{}

func NewZipArchiver() *ZipArchiver {
	return &ZipArchiver{}
}

// Archive streams files into dst in the given order, one entry per file named
// after its base name. On failure the partial archive is removed.
func (a *ZipArchiver) Archive(dst string, files []string) (err error) {
	if len(files) == 0 {
		return fmt.Errorf("%w: nothing to archive", domain.ErrArchivingFailed)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrArchivingFailed, filepath.Base(dst), err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, file := range files {
		if err = addFile(zw, file); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return fmt.Errorf("%w: %v", domain.ErrArchivingFailed, err)
		}
	}

	if err = errors.Join(zw.Close(), out.Close()); err != nil {
		return fmt.Errorf("%w: finalize: %v", domain.ErrArchivingFailed, err)
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer src.Close() //nolint:errcheck

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header %s: %w", filepath.Base(path), err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", header.Name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("write %s: %w", header.Name, err)
	}
	return nil
}

var _ port.Archiver = (*ZipArchiver)(nil)
