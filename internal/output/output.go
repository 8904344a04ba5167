// Package output renders digests, trees and classifications in raw, JSON, XML and YAML formats.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/digest/internal/digest"
	"github.com/temirov/digest/internal/types"
	"github.com/temirov/digest/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	digestHeaderFormat        = "--- Digest: %s ---\n"
	treeHeaderFormat          = "--- Directory Tree: %s ---\n"
	classificationHeaderForm  = "--- Classification: %s ---\n"
	classifiedPathFormat      = "%-*s %s\n"
	minimumLabelWidth         = 16
	excludedLabelFormat       = "excluded:%s"
	invalidFormatMessage      = "Invalid format value '%s'"
	summaryFileLabel          = "file"
	summaryFilesLabel         = "files"
	summaryCharactersFormat   = ", %d characters"
	summaryTruncatedFormat    = ", %d truncated"
	summarySkippedFormat      = ", %d skipped"
	summaryTokensFormat       = ", %d tokens"
	summaryModelSuffixFormat  = " (model: %s)"
	summaryLineFormat         = "Summary: %d %s, %s%s%s"
	emptyStructuredJSONOutput = "[]"
)

// Renderer writes command results in one output format. Raw output is
// written as results arrive; structured formats are written by Flush so that
// several roots form one document.
type Renderer interface {
	RenderDigest(result types.DigestOutput) error
	RenderTree(result types.TreeOutput) error
	RenderClassification(result types.ClassificationOutput) error
	Flush() error
}

// NewRenderer returns the renderer for format.
func NewRenderer(format string, stdout io.Writer, totalRoots int, includeSummary bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case types.FormatRaw:
		return &rawRenderer{stdout: stdout, multipleRoots: totalRoots > 1, includeSummary: includeSummary}, nil
	case types.FormatJSON:
		return &structuredRenderer{stdout: stdout, encode: encodeJSON, includeSummary: includeSummary}, nil
	case types.FormatXML:
		return &structuredRenderer{stdout: stdout, encode: encodeXML, includeSummary: includeSummary}, nil
	case types.FormatYAML:
		return &structuredRenderer{stdout: stdout, encode: encodeYAML, includeSummary: includeSummary}, nil
	default:
		return nil, fmt.Errorf(invalidFormatMessage, format)
	}
}

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case types.FormatRaw, types.FormatJSON, types.FormatXML, types.FormatYAML:
		return true
	default:
		return false
	}
}

// SummarizeDigest computes the summary shown alongside a digest.
func SummarizeDigest(composed digest.Digest) *types.OutputSummary {
	var totalBytes int64
	for _, section := range composed.Sections {
		totalBytes += section.Size
	}
	return &types.OutputSummary{
		TotalFiles:      len(composed.Sections),
		TotalSize:       utils.FormatFileSize(totalBytes),
		TotalCharacters: composed.TotalCharacters(),
		TruncatedFiles:  composed.TruncatedCount(),
		SkippedFiles:    len(composed.Skipped),
	}
}

// SummarizeFiles computes the summary shown alongside a tree.
func SummarizeFiles(files []digest.SourceFile) *types.OutputSummary {
	var totalBytes int64
	for _, file := range files {
		totalBytes += file.Size
	}
	return &types.OutputSummary{TotalFiles: len(files), TotalSize: utils.FormatFileSize(totalBytes)}
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{TotalSize: utils.FormatFileSize(0)}
	}
	label := summaryFilesLabel
	if summary.TotalFiles == 1 {
		label = summaryFileLabel
	}
	var extra strings.Builder
	if summary.TotalCharacters > 0 {
		extra.WriteString(fmt.Sprintf(summaryCharactersFormat, summary.TotalCharacters))
	}
	if summary.TruncatedFiles > 0 {
		extra.WriteString(fmt.Sprintf(summaryTruncatedFormat, summary.TruncatedFiles))
	}
	if summary.SkippedFiles > 0 {
		extra.WriteString(fmt.Sprintf(summarySkippedFormat, summary.SkippedFiles))
	}
	if summary.TotalTokens > 0 {
		extra.WriteString(fmt.Sprintf(summaryTokensFormat, summary.TotalTokens))
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(summaryModelSuffixFormat, summary.Model)
	}
	return fmt.Sprintf(summaryLineFormat, summary.TotalFiles, label, summary.TotalSize, extra.String(), modelSuffix)
}

// ClassifiedLabel returns the raw label of a classified path.
func ClassifiedLabel(classified types.ClassifiedPath) string {
	if classified.Excluded {
		return fmt.Sprintf(excludedLabelFormat, classified.Rule)
	}
	return classified.Label
}
