package richtext

import (
	"github.com/riverfjs/richtext-go/internal/types"
)

// 导出类型别名
type (
	SegmentKind   = types.SegmentKind
	Segment       = types.Segment
	ParsedText    = types.ParsedText
	Facet         = types.Facet
	ByteSlice     = types.ByteSlice
	Feature       = types.Feature
	FinalizedText = types.FinalizedText
)

const (
	SegmentText    = types.SegmentText
	SegmentEscape  = types.SegmentEscape
	SegmentLink    = types.SegmentLink
	SegmentMdLink  = types.SegmentMdLink
	SegmentMention = types.SegmentMention
	SegmentTag     = types.SegmentTag
)

// Feature $type values.
const (
	FeatureLink    = types.FeatureLink
	FeatureMention = types.FeatureMention
	FeatureTag     = types.FeatureTag
)

// Segments returns the segments of p that have the given kind, in order.
func Segments(p *ParsedText, kind SegmentKind) []Segment {
	result := []Segment{}
	if p == nil {
		return result
	}
	for _, seg := range p.Segments {
		if seg.Kind == kind {
			result = append(result, seg)
		}
	}
	return result
}

// RawText reassembles the source text p was scanned from.
func RawText(p *ParsedText) string {
	if p == nil {
		return ""
	}
	total := 0
	for i := range p.Segments {
		total += len(p.Segments[i].Raw)
	}
	result := make([]byte, 0, total)
	for i := range p.Segments {
		result = append(result, p.Segments[i].Raw...)
	}
	return string(result)
}
