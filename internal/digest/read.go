package digest

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// ReadRunes reads at most limit runes from reader and reports whether further
// content remains. Invalid UTF-8 or NUL bytes yield ErrBinaryContent.
func ReadRunes(reader *bufio.Reader, limit int) (string, bool, error) {
	if limit < 0 {
		limit = 0
	}
	var builder strings.Builder
	for readCount := 0; readCount < limit; readCount++ {
		runeValue, runeSize, readError := reader.ReadRune()
		if readError != nil {
			if errors.Is(readError, io.EOF) {
				return builder.String(), false, nil
			}
			return "", false, readError
		}
		if (runeValue == utf8.RuneError && runeSize == 1) || runeValue == 0 {
			return "", false, ErrBinaryContent
		}
		builder.WriteRune(runeValue)
	}
	if _, peekError := reader.Peek(1); peekError != nil {
		if errors.Is(peekError, io.EOF) {
			return builder.String(), false, nil
		}
		return "", false, peekError
	}
	return builder.String(), true, nil
}
