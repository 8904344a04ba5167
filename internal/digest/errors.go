package digest

import "errors"

var (
	// ErrInvalidConfiguration reports budget, ceiling or tree limits that cannot be used.
	ErrInvalidConfiguration = errors.New("invalid digest configuration")
	// ErrBinaryContent reports content that is not valid UTF-8 text.
	ErrBinaryContent = errors.New("content is not text")
)
