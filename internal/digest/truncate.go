package digest

import (
	"fmt"
	"unicode/utf8"
)

const truncationNoticeFormat = "\n\n... [truncated after %d characters]"

// TruncationNotice returns the marker appended to content cut at ceiling characters.
func TruncationNotice(ceiling int) string {
	return fmt.Sprintf(truncationNoticeFormat, ceiling)
}

// Truncate keeps the first ceiling characters of content and appends the
// truncation notice when content is longer than ceiling. Content is only ever
// removed from the tail.
func Truncate(content string, ceiling int) (string, bool) {
	if ceiling < 0 {
		ceiling = 0
	}
	if utf8.RuneCountInString(content) <= ceiling {
		return content, false
	}
	keptCharacters := 0
	for byteIndex := range content {
		if keptCharacters == ceiling {
			return content[:byteIndex] + TruncationNotice(ceiling), true
		}
		keptCharacters++
	}
	return content, false
}

// TruncateRead applies the truncation law to a prefix obtained through a
// ContentAccessor, where more reports that the source continues past text.
func TruncateRead(text string, more bool, ceiling int) (string, bool) {
	if more {
		return text + TruncationNotice(ceiling), true
	}
	return Truncate(text, ceiling)
}

// CharacterCount returns the number of characters in text.
func CharacterCount(text string) int {
	return utf8.RuneCountInString(text)
}
