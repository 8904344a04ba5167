// Package types defines the cross-package data structures used by the digest CLI.
package types

import (
	"encoding/xml"

	"github.com/temirov/digest/internal/digest"
)

const (
	CommandRun      = "run"
	CommandTree     = "tree"
	CommandClassify = "classify"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// DigestOutput is the result of the run command for one root path.
type DigestOutput struct {
	XMLName   xml.Name             `json:"-" xml:"digest" yaml:"-"`
	Root      string               `json:"root" xml:"root,attr" yaml:"root"`
	Budget    int                  `json:"budget" xml:"budget,attr" yaml:"budget"`
	Remaining int                  `json:"remaining" xml:"remaining,attr" yaml:"remaining"`
	Tree      string               `json:"tree" xml:"tree" yaml:"tree"`
	Sections  []digest.Section     `json:"sections" xml:"sections>section" yaml:"sections"`
	Skipped   []digest.SkippedFile `json:"skipped,omitempty" xml:"skipped>file,omitempty" yaml:"skipped,omitempty"`
	// Document holds the rendered digest text, or the full summarization prompt when prompting is enabled.
	Document string         `json:"document" xml:"document" yaml:"document"`
	Summary  *OutputSummary `json:"summary,omitempty" xml:"summary,omitempty" yaml:"summary,omitempty"`
}

// TreeOutput is the result of the tree command for one root path.
type TreeOutput struct {
	XMLName xml.Name       `json:"-" xml:"tree" yaml:"-"`
	Root    string         `json:"root" xml:"root,attr" yaml:"root"`
	Tree    string         `json:"tree" xml:",chardata" yaml:"tree"`
	Summary *OutputSummary `json:"summary,omitempty" xml:"-" yaml:"summary,omitempty"`
}

// ClassifiedPath is the classification of one collected file.
type ClassifiedPath struct {
	Path     string `json:"path" xml:"path,attr" yaml:"path"`
	Excluded bool   `json:"excluded" xml:"excluded,attr" yaml:"excluded"`
	Tier     int    `json:"tier,omitempty" xml:"tier,attr,omitempty" yaml:"tier,omitempty"`
	Label    string `json:"label" xml:"label,attr" yaml:"label"`
	Rule     string `json:"rule" xml:"rule,attr" yaml:"rule"`
}

// ClassificationOutput is the result of the classify command for one root path.
type ClassificationOutput struct {
	XMLName xml.Name         `json:"-" xml:"classification" yaml:"-"`
	Root    string           `json:"root" xml:"root,attr" yaml:"root"`
	Paths   []ClassifiedPath `json:"paths" xml:"path" yaml:"paths"`
}

// OutputSummary captures aggregate information about a rendered digest.
type OutputSummary struct {
	TotalFiles      int    `json:"totalFiles" xml:"totalFiles" yaml:"totalFiles"`
	TotalSize       string `json:"totalSize" xml:"totalSize" yaml:"totalSize"`
	TotalCharacters int    `json:"totalCharacters,omitempty" xml:"totalCharacters,omitempty" yaml:"totalCharacters,omitempty"`
	TruncatedFiles  int    `json:"truncatedFiles,omitempty" xml:"truncatedFiles,omitempty" yaml:"truncatedFiles,omitempty"`
	SkippedFiles    int    `json:"skippedFiles,omitempty" xml:"skippedFiles,omitempty" yaml:"skippedFiles,omitempty"`
	TotalTokens     int    `json:"totalTokens,omitempty" xml:"totalTokens,omitempty" yaml:"totalTokens,omitempty"`
	Model           string `json:"model,omitempty" xml:"model,omitempty" yaml:"model,omitempty"`
}
