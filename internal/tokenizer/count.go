package tokenizer

import (
	"errors"
	"fmt"

	"github.com/temirov/digest/internal/digest"
)

const errorCountSectionFormat = "count tokens for %s: %w"

var errNilCounter = errors.New("nil tokenizer counter")

// DigestCount holds token estimates for a composed digest.
type DigestCount struct {
	// Document is the token count of the full rendered document.
	Document int
	// Sections maps each admitted path to the token count of its content.
	Sections map[string]int
}

// CountDigest estimates tokens for the rendered document and for every admitted section.
func CountDigest(counter Counter, composed digest.Digest) (DigestCount, error) {
	if counter == nil {
		return DigestCount{}, errNilCounter
	}
	documentTokens, documentErr := counter.CountString(composed.Document())
	if documentErr != nil {
		return DigestCount{}, documentErr
	}
	result := DigestCount{Document: documentTokens, Sections: make(map[string]int, len(composed.Sections))}
	for _, section := range composed.Sections {
		sectionTokens, sectionErr := counter.CountString(section.Content)
		if sectionErr != nil {
			return DigestCount{}, fmt.Errorf(errorCountSectionFormat, section.Path, sectionErr)
		}
		result.Sections[section.Path] = sectionTokens
	}
	return result, nil
}

// CountText estimates tokens for a single text, such as a rendered tree or prompt.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	return counter.CountString(text)
}
