package domain

import "strings"

type ConversionKind string

const (
	KindJPGToPDF        ConversionKind = "jpg-to-pdf"
	KindPNGToPDF        ConversionKind = "png-to-pdf"
	KindPDFToJPG        ConversionKind = "pdf-to-jpg"
	KindPDFToPNG        ConversionKind = "pdf-to-png"
	KindWordToPDF       ConversionKind = "word-to-pdf"
	KindExcelToPDF      ConversionKind = "excel-to-pdf"
	KindPPTToPDF        ConversionKind = "ppt-to-pdf"
	KindPDFToWord       ConversionKind = "pdf-to-word"
	KindPDFCompress     ConversionKind = "pdf-compress"
	KindPDFMerge        ConversionKind = "pdf-merge"
	KindPDFSplit        ConversionKind = "pdf-split"
	KindPDFText         ConversionKind = "pdf-text"
	KindPDFImages       ConversionKind = "pdf-images"
	KindOCR             ConversionKind = "ocr"
	KindPDFEditable     ConversionKind = "pdf-editable-text"
	KindPDFSummary      ConversionKind = "pdf-summary"
	KindPDFTableExtract ConversionKind = "pdf-table-extract"
)

// allKinds keeps catalogue order stable for listing.
var allKinds = []ConversionKind{
	KindJPGToPDF,
	KindPNGToPDF,
	KindPDFToJPG,
	KindPDFToPNG,
	KindWordToPDF,
	KindExcelToPDF,
	KindPPTToPDF,
	KindPDFToWord,
	KindPDFCompress,
	KindPDFMerge,
	KindPDFSplit,
	KindPDFText,
	KindPDFImages,
	KindOCR,
	KindPDFEditable,
	KindPDFSummary,
	KindPDFTableExtract,
}

// fixedTargets covers kinds whose name does not carry a "-to-" target.
var fixedTargets = map[ConversionKind]string{
	KindPDFToWord:       "docx",
	KindPDFCompress:     "pdf",
	KindPDFMerge:        "pdf",
	KindPDFSplit:        "zip",
	KindPDFText:         "txt",
	KindPDFImages:       "zip",
	KindOCR:             "txt",
	KindPDFEditable:     "txt",
	KindPDFSummary:      "txt",
	KindPDFTableExtract: "json",
}

// ConversionKinds returns every supported kind in catalogue order.
func ConversionKinds() []ConversionKind {
	out := make([]ConversionKind, len(allKinds))
	copy(out, allKinds)
	return out
}

func ParseConversionKind(s string) (ConversionKind, error) {
	k := ConversionKind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", ErrUnsupportedConversion
	}
	return k, nil
}

func (k ConversionKind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// TargetFormat is the format recorded on the job once a conversion is accepted.
func (k ConversionKind) TargetFormat() string {
	if f, ok := fixedTargets[k]; ok {
		return f
	}
	if _, after, ok := strings.Cut(string(k), "-to-"); ok && after != "" {
		return after
	}
	return "unknown"
}

// AcceptsMultipleInputs reports whether extra inputs are meaningful for the kind.
func (k ConversionKind) AcceptsMultipleInputs() bool {
	return k == KindPDFMerge
}

func (k ConversionKind) String() string {
	return string(k)
}

// ConversionRequest is everything a strategy needs to produce its outputs.
type ConversionRequest struct {
	Kind             ConversionKind
	InputPath        string
	OriginalFilename string
	// AdditionalInputs follow InputPath, in order, for multi-input kinds.
	AdditionalInputs []string
}

// Inputs returns the primary input followed by any additional inputs.
func (r ConversionRequest) Inputs() []string {
	return append([]string{r.InputPath}, r.AdditionalInputs...)
}

type CompletionRequest struct {
	Prompt string
	// JSON asks the completer for a JSON-formatted response.
	JSON bool
}
