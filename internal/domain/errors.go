package domain

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound           = errors.New("job not found")
	ErrUnsupportedConversion = errors.New("unsupported conversion type")
	ErrInvalidTransition     = errors.New("job cannot be converted in its current state")
	ErrConversionInProgress  = errors.New("conversion already in progress")
	ErrArtifactMissing       = errors.New("artifact file not found")
	ErrOutputNotReady        = errors.New("output file not available")

	ErrRenderingFailed       = errors.New("rendering failed")
	ErrArchivingFailed       = errors.New("archiving failed")
	ErrNoExtractableText     = errors.New("no extractable text")
	ErrNoOutput              = errors.New("conversion produced no output")
	ErrUpstreamServiceFailed = errors.New("upstream service failed")
)

// ConversionError ties a strategy failure to the conversion kind that produced it.
type ConversionError struct {
	Kind ConversionKind
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
