package domain

import (
	"fmt"
	"time"
)

type JobStatus string

const (
	JobStatusUploaded   JobStatus = "uploaded"
	JobStatusConverting JobStatus = "converting"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// PendingTargetFormat is recorded until a conversion has been requested.
const PendingTargetFormat = "pending"

func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type Job struct {
	ID               string         `json:"id"`
	OriginalFilename string         `json:"originalFilename"`
	OriginalFormat   string         `json:"originalFormat"`
	TargetFormat     string         `json:"targetFormat"`
	Status           JobStatus      `json:"status"`
	InputPath        string         `json:"inputPath"`
	OutputPath       string         `json:"outputPath,omitempty"`
	FileSize         int64          `json:"fileSize"`
	ConversionKind   ConversionKind `json:"conversionType,omitempty"`
	ErrorMessage     string         `json:"errorMessage,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func NewJob(originalFilename, inputPath string, fileSize int64) *Job {
	return &Job{
		OriginalFilename: originalFilename,
		OriginalFormat:   DetectDocumentFormat(originalFilename),
		TargetFormat:     PendingTargetFormat,
		Status:           JobStatusUploaded,
		InputPath:        inputPath,
		FileSize:         fileSize,
		CreatedAt:        time.Now(),
	}
}

// Clone returns a copy that shares no mutable state with j.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	return &c
}

// Validate checks the output path invariant: an output exists exactly when the job completed.
func (j *Job) Validate() error {
	if j.Status == JobStatusCompleted && j.OutputPath == "" {
		return fmt.Errorf("job %s: completed without output path", j.ID)
	}
	if j.Status != JobStatusCompleted && j.OutputPath != "" {
		return fmt.Errorf("job %s: output path set in status %s", j.ID, j.Status)
	}
	return nil
}

// CanStartConversion reports whether a conversion may be requested from the current status.
func (j *Job) CanStartConversion() bool {
	return j.Status == JobStatusUploaded || j.Status == JobStatusConverting
}

// IsOlderThan reports whether the job was created more than age ago.
func (j *Job) IsOlderThan(age time.Duration, now time.Time) bool {
	return now.Sub(j.CreatedAt) > age
}

// JobPatch is a partial update. Nil fields leave the stored value untouched.
type JobPatch struct {
	TargetFormat   *string
	Status         *JobStatus
	OutputPath     *string
	ConversionKind *ConversionKind
	ErrorMessage   *string
}

// Apply merges the patch into j.
func (p JobPatch) Apply(j *Job) {
	if p.TargetFormat != nil {
		j.TargetFormat = *p.TargetFormat
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.OutputPath != nil {
		j.OutputPath = *p.OutputPath
	}
	if p.ConversionKind != nil {
		j.ConversionKind = *p.ConversionKind
	}
	if p.ErrorMessage != nil {
		j.ErrorMessage = *p.ErrorMessage
	}
}

// ConvertingPatch moves a job into converting for kind.
func ConvertingPatch(kind ConversionKind) JobPatch {
	status := JobStatusConverting
	target := kind.TargetFormat()
	empty := ""
	return JobPatch{
		Status:         &status,
		TargetFormat:   &target,
		ConversionKind: &kind,
		OutputPath:     &empty,
		ErrorMessage:   &empty,
	}
}

func CompletedPatch(outputPath string) JobPatch {
	status := JobStatusCompleted
	return JobPatch{Status: &status, OutputPath: &outputPath}
}

func FailedPatch(err error) JobPatch {
	status := JobStatusFailed
	empty := ""
	msg := err.Error()
	return JobPatch{Status: &status, OutputPath: &empty, ErrorMessage: &msg}
}
