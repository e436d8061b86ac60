package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bnema/docforge/internal/adapter/http/validation"
	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/service"
	"github.com/google/uuid"
)

type JobService interface {
	Upload(ctx context.Context, filename string, src io.Reader) (*domain.Job, error)
	Convert(ctx context.Context, req service.ConvertRequest) (*domain.Job, error)
	Get(ctx context.Context, id string) (*domain.Job, error)
	Download(ctx context.Context, id string) (*domain.Job, error)
	Retrieved(id string)
}

// maxConvertBodyBytes bounds the JSON body of a conversion request.
const maxConvertBodyBytes = 1 << 20

type Handlers struct {
	jobSvc    JobService
	maxSizeMB int
	version   string
}

func NewHandlers(jobSvc JobService, maxSizeMB int, version string) *Handlers {
	return &Handlers{
		jobSvc:    jobSvc,
		maxSizeMB: maxSizeMB,
		version:   version,
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	JobID    string `json:"jobId"`
	Filename string `json:"filename"`
	FileSize string `json:"fileSize"`
	Format   string `json:"format"`
}

type convertRequest struct {
	JobID            string   `json:"jobId"`
	ConversionType   string   `json:"conversionType"`
	AdditionalJobIDs []string `json:"additionalJobIds,omitempty"`
}

type jobResponse struct {
	Success bool        `json:"success,omitempty"`
	Job     *domain.Job `json:"job"`
}

type conversionInfo struct {
	Type           domain.ConversionKind `json:"type"`
	TargetFormat   string                `json:"targetFormat"`
	MultipleInputs bool                  `json:"multipleInputs"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps domain failures to response codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrOutputNotReady),
		errors.Is(err, domain.ErrArtifactMissing):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedConversion):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConversionInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoExtractableText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstreamServiceFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(h.maxSizeMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024*1024)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "Invalid upload")
			return
		}
		defer r.MultipartForm.RemoveAll() //nolint:errcheck

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close() //nolint:errcheck

		if header.Size > maxBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}

		filename := validation.UploadFilename(header.Filename)
		if mime, err := validation.ValidateUpload(filename, file); err != nil {
			logger.Warn.Printf("rejected upload %s (%s): %v", logger.SanitizeForLog(filename), mime, err)
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}

		job, err := h.jobSvc.Upload(r.Context(), filename, file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to upload file")
			return
		}

		writeJSON(w, http.StatusOK, uploadResponse{
			Success:  true,
			JobID:    job.ID,
			Filename: job.OriginalFilename,
			FileSize: domain.FormatKilobytes(job.FileSize),
			Format:   job.OriginalFormat,
		})
	}
}

func (h *Handlers) Convert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req convertRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxConvertBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request", Details: []string{"body must be a JSON object"}})
			return
		}
		if details := req.problems(); len(details) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request", Details: details})
			return
		}

		job, err := h.jobSvc.Convert(r.Context(), service.ConvertRequest{
			JobID:            req.JobID,
			Kind:             req.ConversionType,
			AdditionalJobIDs: req.AdditionalJobIDs,
		})
		if err != nil {
			writeError(w, errorStatus(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, jobResponse{Success: true, Job: job})
	}
}

// problems lists what is wrong with the request, in field order.
func (req convertRequest) problems() []string {
	var details []string
	if _, err := uuid.Parse(req.JobID); err != nil {
		details = append(details, "jobId must be a UUID")
	}
	if _, err := domain.ParseConversionKind(req.ConversionType); err != nil {
		details = append(details, "conversionType is not supported")
	}
	for _, id := range req.AdditionalJobIDs {
		if _, err := uuid.Parse(id); err != nil {
			details = append(details, "additionalJobIds must be UUIDs")
			break
		}
	}
	return details
}

func (h *Handlers) Job() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := h.jobSvc.Get(r.Context(), r.PathValue("jobId"))
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				writeError(w, http.StatusNotFound, "Job not found")
				return
			}
			logger.Error.Printf("job lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to get job status")
			return
		}

		writeJSON(w, http.StatusOK, jobResponse{Job: job})
	}
}

// Download streams the job's output and then arms its retention cleanup.
func (h *Handlers) Download() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("jobId")

		job, err := h.jobSvc.Download(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) || errors.Is(err, domain.ErrOutputNotReady) {
				writeError(w, http.StatusNotFound, "File not found")
				return
			}
			if errors.Is(err, domain.ErrArtifactMissing) {
				writeError(w, http.StatusNotFound, "File not found on server")
				return
			}
			logger.Error.Printf("download lookup failed for %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to download file")
			return
		}

		f, err := os.Open(job.OutputPath)
		if err != nil {
			writeError(w, http.StatusNotFound, "File not found on server")
			return
		}
		defer f.Close() //nolint:errcheck

		info, err := f.Stat()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to download file")
			return
		}

		name := filepath.Base(job.OutputPath)
		w.Header().Set("Content-Type", domain.ContentType(name))
		w.Header().Set("Content-Disposition", validation.ContentDisposition(name, false))
		http.ServeContent(w, r, name, info.ModTime(), f)

		h.jobSvc.Retrieved(id)
	}
}

func (h *Handlers) Conversions() http.HandlerFunc {
	kinds := domain.ConversionKinds()
	catalogue := make([]conversionInfo, 0, len(kinds))
	for _, k := range kinds {
		catalogue = append(catalogue, conversionInfo{
			Type:           k,
			TargetFormat:   k.TargetFormat(),
			MultipleInputs: k.AcceptsMultipleInputs(),
		})
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"conversions": catalogue})
	}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
	}
}
