package richtext

import (
	"github.com/riverfjs/richtext-go/internal/parser"
)

// Parse 扫描源文本，返回片段列表和遇到的链接
//
// Parse 从不失败：无法识别的结构都退化为普通文本。每次输入变化都应重新
// 调用，返回值不与之前的结果共享状态。
//
// 参数:
//   - source: 用户输入的原始文本
//   - opts: 可选的 URL 校验器和短链接格式化器
//
// 返回:
//   - *ParsedText: 片段和链接，拼接所有片段的 Raw 可还原 source
func Parse(source string, opts ...Option) *ParsedText {
	options := applyOptions(opts...)
	return parser.Scan(source, parser.Options{
		URLParser: options.URLParser,
		Shortener: options.Shortener,
	})
}
