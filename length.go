package richtext

import (
	"errors"
	"fmt"
)

// ErrTooLong is returned by Validate when the text exceeds the grapheme limit.
var ErrTooLong = errors.New("text too long")

// RenderedText 返回所有片段显示文本的拼接，即最终提交的文本
func RenderedText(p *ParsedText) string {
	return p.Text()
}

// DisplayLength 计算文本的用户可见长度（grapheme cluster 数）
//
// 结果缓存在 p 上，同一实例重复调用不会重新计数。
func DisplayLength(p *ParsedText) int {
	return p.Length()
}

// Validate checks p against a grapheme limit. A non-positive limit uses
// the configured default.
func Validate(p *ParsedText, maxGraphemes int) error {
	if maxGraphemes <= 0 {
		maxGraphemes = DefaultConfig().MaxGraphemes
	}
	if n := DisplayLength(p); n > maxGraphemes {
		return fmt.Errorf("%w: %d graphemes, limit %d", ErrTooLong, n, maxGraphemes)
	}
	return nil
}
