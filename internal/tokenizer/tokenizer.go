// Package tokenizer estimates token counts for composed digests.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackTokenizerFormat = "initialize %s tokenizer: %w"
)

var errNilEncoder = errors.New("nil tiktoken encoder")

// NewCounter returns a Counter for the requested model together with the name
// of the model or encoding actually used. Model names tiktoken knows resolve to
// their own encoding; every other name falls back to cl100k_base.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = DefaultModel
	}
	if encoding, encodingErr := tiktoken.EncodingForModel(model); encodingErr == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: model}, model, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf(errorFallbackTokenizerFormat, defaultEncodingName, fallbackErr)
	}
	return tiktokenCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoder
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
