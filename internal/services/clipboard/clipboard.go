// Package clipboard places rendered digests on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorCopyFormat = "write %d bytes to clipboard: %w"

// ErrUnavailable is returned when no clipboard utility is available, such as
// on a headless Linux host without xclip, xsel or wl-copy.
var ErrUnavailable = errors.New("system clipboard is unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	available func() bool
	write     func(text string) error
}

// NewService constructs a Service backed by the system clipboard.
func NewService() *Service {
	return &Service{
		available: func() bool { return !clipboard.Unsupported },
		write:     clipboard.WriteAll,
	}
}

// Copy writes text to the clipboard.
func (service *Service) Copy(text string) error {
	if !service.available() {
		return ErrUnavailable
	}
	if writeError := service.write(text); writeError != nil {
		return fmt.Errorf(errorCopyFormat, len(text), writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
