package richtext

import (
	"context"

	"github.com/riverfjs/richtext-go/internal/converter"
)

// Finalize 提交时的完整管道：ParsedText → 文本 + facets
//
// 步骤：
//  1. 按顺序遍历片段，累计每个片段显示文本的 UTF-8 字节长度
//  2. 链接和 Markdown 链接 → link facet
//  3. 提及 → 逐个调用 resolver（严格按顺序，不并发）
//     - 成功 → mention facet
//     - ErrHandleNotFound → 跳过，偏移量不受影响
//     - 其它错误 → 中止，不返回部分结果
//  4. 标签 → tag facet
//
// ctx 在每个片段之前检查，取消后立即返回 ctx.Err()。
// 同一个 ParsedText 不应被并发 Finalize。
func Finalize(ctx context.Context, resolver Resolver, p *ParsedText, opts ...Option) (*FinalizedText, error) {
	options := applyOptions(opts...)

	return converter.Finalize(ctx, resolver, p, converter.Options{
		ValidLinksOnly: options.ValidLinksOnly,
		Logger:         options.logger(),
	})
}
