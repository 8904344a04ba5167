package utils

import (
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength is the number of leading bytes inspected to classify content as binary.
const sniffLength = 8000

// IsBinary reports whether data looks like binary content: it holds a NUL
// byte or is not valid UTF-8. A rune cut off at the end of data is tolerated.
func IsBinary(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	return !utf8.Valid(trimIncompleteRune(data))
}

// trimIncompleteRune drops a trailing multi-byte sequence cut off by the sniff window.
func trimIncompleteRune(data []byte) []byte {
	for offset := 1; offset <= utf8.UTFMax && offset <= len(data); offset++ {
		tail := data[len(data)-offset:]
		if tail[0] < utf8.RuneSelf {
			return data
		}
		if !utf8.RuneStart(tail[0]) {
			continue
		}
		if utf8.FullRune(tail) {
			return data
		}
		return data[:len(data)-offset]
	}
	return data
}

// SniffBinary reads at most the sniff window from reader and classifies it.
func SniffBinary(reader io.Reader) (bool, error) {
	window := make([]byte, sniffLength)
	readCount, readError := io.ReadFull(reader, window)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return false, readError
	}
	return IsBinary(window[:readCount]), nil
}

// IsFileBinary reports whether the file at path starts with binary content.
// Files that cannot be opened or read are reported as text and left for the
// reader to reject.
//
// #nosec G304
func IsFileBinary(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()
	binary, sniffError := SniffBinary(fileHandle)
	return sniffError == nil && binary
}
