// Package richtext 将用户输入的帖子文本转换为纯文本 + facet 列表
//
// 输出与 app.bsky.richtext.facet 的 wire 格式兼容：facet 的区间是最终文本
// 上的 UTF-8 字节偏移。
//
// 核心功能：
//   - 单趟扫描：提及 (@handle)、标签 (#tag)、Markdown 链接 ([label](url))、
//     自动链接 (http/https) 和反斜杠转义
//   - 显示长度（grapheme cluster 数）按 ParsedText 实例缓存，适合每次按键调用
//   - 提交时顺序解析 handle，生成带字节偏移的 facets
//
// 主要 API：
//   - Parse(): 同步扫描，返回 *ParsedText
//   - Finalize(): 解析提及并生成 *FinalizedText
//   - Compose(): Parse + Finalize
//
// 示例：
//
//	p := richtext.Parse("hello @alice.example.com #go")
//	fmt.Println(richtext.DisplayLength(p))
//
//	resolver := richtext.NewXRPCResolver("", 10*time.Second)
//	out, err := richtext.Finalize(ctx, resolver, p)
//	if err != nil {
//	    // 没有生成任何内容
//	}
//	for _, facet := range out.Facets {
//	    fmt.Println(richtext.FacetText(out.Text, facet))
//	}
package richtext

import (
	"context"
)

// Compose 扫描 source 并立即生成最终负载
//
// 等价于 Finalize(ctx, resolver, Parse(source, opts...), opts...)。
func Compose(ctx context.Context, resolver Resolver, source string, opts ...Option) (*FinalizedText, error) {
	return Finalize(ctx, resolver, Parse(source, opts...), opts...)
}
