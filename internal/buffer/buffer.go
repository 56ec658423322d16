package buffer

import (
	"strings"

	"github.com/riverfjs/richtext-go/internal/util"
)

// TextBuffer accumulates rendered text and tracks the current UTF-8 byte offset.
type TextBuffer struct {
	parts      []string
	byteOffset int
}

// New creates a new TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{
		parts: make([]string, 0),
	}
}

// Write appends text to the buffer and returns the byte range it occupies.
func (tb *TextBuffer) Write(text string) (start, end int) {
	start = tb.byteOffset
	tb.parts = append(tb.parts, text)
	tb.byteOffset += util.UTF8Len(text)
	return start, tb.byteOffset
}

// ByteOffset returns the current wire byte offset.
func (tb *TextBuffer) ByteOffset() int {
	return tb.byteOffset
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	if len(tb.parts) == 0 {
		return ""
	}
	totalLen := 0
	for _, p := range tb.parts {
		totalLen += len(p)
	}
	var sb strings.Builder
	sb.Grow(totalLen)
	for _, p := range tb.parts {
		sb.WriteString(p)
	}
	return sb.String()
}
