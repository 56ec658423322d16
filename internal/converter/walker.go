package converter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/riverfjs/richtext-go/internal/buffer"
	"github.com/riverfjs/richtext-go/internal/types"
)

// HandleResolver 将 handle 解析为稳定标识（DID）
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// Options 控制 facet 生成
type Options struct {
	// ValidLinksOnly drops the link facet of markdown links whose target
	// failed URL validation. Off by default to keep the established wire output.
	ValidLinksOnly bool
	Logger         zerolog.Logger
}

// SegmentWalker 顺序遍历片段，维护 UTF-8 字节游标并生成 facets
type SegmentWalker struct {
	buf      *buffer.TextBuffer
	resolver HandleResolver
	facets   []types.Facet
	opts     Options
}

// NewSegmentWalker 创建新的 SegmentWalker
func NewSegmentWalker(resolver HandleResolver, opts Options) *SegmentWalker {
	return &SegmentWalker{
		buf:      buffer.New(),
		resolver: resolver,
		facets:   make([]types.Facet, 0),
		opts:     opts,
	}
}

// Walk 处理单个片段。游标对每个片段都前进，与是否产生 facet 无关
func (w *SegmentWalker) Walk(ctx context.Context, seg *types.Segment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start, end := w.buf.Write(seg.Text)
	index := types.ByteSlice{ByteStart: start, ByteEnd: end}

	switch seg.Kind {
	case types.SegmentLink:
		w.emit(index, types.Feature{Type: types.FeatureLink, URI: seg.URI})

	case types.SegmentMdLink:
		if seg.Valid || !w.opts.ValidLinksOnly {
			w.emit(index, types.Feature{Type: types.FeatureLink, URI: seg.URI})
		}

	case types.SegmentMention:
		return w.onMention(ctx, index, seg.Handle)

	case types.SegmentTag:
		w.emit(index, types.Feature{Type: types.FeatureTag, Tag: seg.Tag})
	}
	return nil
}

func (w *SegmentWalker) onMention(ctx context.Context, index types.ByteSlice, handle string) error {
	if w.resolver == nil {
		return types.ErrNoResolver
	}

	did, err := w.resolver.ResolveHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, types.ErrHandleNotFound) {
			w.opts.Logger.Debug().
				Str("handle", handle).
				Int("byte_start", index.ByteStart).
				Msg("Skipping mention of unknown handle")
			return nil
		}
		w.opts.Logger.Warn().Err(err).Str("handle", handle).Msg("Failed to resolve handle")
		return fmt.Errorf("resolve handle %q: %w", handle, err)
	}

	w.emit(index, types.Feature{Type: types.FeatureMention, DID: did})
	return nil
}

func (w *SegmentWalker) emit(index types.ByteSlice, feature types.Feature) {
	w.facets = append(w.facets, types.Facet{
		Index:    index,
		Features: []types.Feature{feature},
	})
}

// Result 返回最终文本和 facets
func (w *SegmentWalker) Result() *types.FinalizedText {
	return &types.FinalizedText{
		Text:   w.buf.String(),
		Facets: w.facets,
	}
}

// Finalize 遍历 ParsedText 生成 FinalizedText
//
// 任何非 "handle 不存在" 的解析失败都会中止整个过程，不返回部分结果。
func Finalize(ctx context.Context, resolver HandleResolver, p *types.ParsedText, opts Options) (*types.FinalizedText, error) {
	w := NewSegmentWalker(resolver, opts)
	if p == nil {
		return w.Result(), nil
	}
	for i := range p.Segments {
		if err := w.Walk(ctx, &p.Segments[i]); err != nil {
			return nil, err
		}
	}
	return w.Result(), nil
}
