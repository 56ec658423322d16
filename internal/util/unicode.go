package util

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// GraphemeLen returns the number of user-perceived characters in text.
func GraphemeLen(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// ASCIILen returns len(text) and true when text is pure ASCII.
// For anything else it returns false and the caller must measure it properly.
func ASCIILen(text string) (int, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return 0, false
		}
	}
	return len(text), true
}

// UTF8Len returns the length of text once encoded as UTF-8 on the wire.
//
// Invalid bytes are replaced with U+FFFD by every JSON encoder, so each of
// them counts as the three bytes of the replacement character.
func UTF8Len(text string) int {
	if n, ok := ASCIILen(text); ok {
		return n
	}
	count := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			count += utf8.RuneLen(utf8.RuneError)
		} else {
			count += size
		}
		i += size
	}
	return count
}
