package types

import (
	"encoding/json"
	"strings"

	"github.com/bluesky-social/indigo/api/bsky"

	"github.com/riverfjs/richtext-go/internal/util"
)

// Feature $type 常量，对应 app.bsky.richtext.facet 的 union 成员
const (
	FeatureLink    = "app.bsky.richtext.facet#link"
	FeatureMention = "app.bsky.richtext.facet#mention"
	FeatureTag     = "app.bsky.richtext.facet#tag"
)

// SegmentKind 表示扫描器产生的片段类型
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentEscape
	SegmentLink
	SegmentMdLink
	SegmentMention
	SegmentTag
)

// String returns the string representation of SegmentKind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentEscape:
		return "escape"
	case SegmentLink:
		return "link"
	case SegmentMdLink:
		return "mdlink"
	case SegmentMention:
		return "mention"
	case SegmentTag:
		return "tag"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment 表示源文本中被归为同一语法类别的连续片段
//
// Raw 是消费的原始子串，Text 是用于长度计算和最终输出的显示形式。
// 其余字段只在对应类型上有意义。
type Segment struct {
	Kind SegmentKind `json:"type"`
	Raw  string      `json:"raw"`
	Text string      `json:"text"`

	// RawParts holds "[", label, "](", target, ")" for markdown links.
	RawParts *[5]string `json:"rawParts,omitempty"`

	URI    string `json:"uri,omitempty"`
	Valid  bool   `json:"valid,omitempty"`
	Handle string `json:"handle,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// ParsedText 扫描结果：片段列表 + 遇到的合法链接
//
// 每次编辑都会重新创建，因此显示长度按实例缓存即可。
type ParsedText struct {
	Segments []Segment `json:"segments"`
	Links    []string  `json:"links"`

	length    int
	hasLength bool
}

// Text returns the concatenation of every segment's display text.
func (p *ParsedText) Text() string {
	if p == nil || len(p.Segments) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := range p.Segments {
		sb.WriteString(p.Segments[i].Text)
	}
	return sb.String()
}

// Length returns the number of grapheme clusters in Text. The value is
// computed on first use and kept on the instance.
func (p *ParsedText) Length() int {
	if p == nil {
		return 0
	}
	if !p.hasLength {
		p.length = util.GraphemeLen(p.Text())
		p.hasLength = true
	}
	return p.length
}

// ByteSlice 表示 facet 覆盖的 UTF-8 字节区间 [ByteStart, ByteEnd)
type ByteSlice struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

// Feature 是 facet 的语义标注，Type 为 $type 判别字段
//
// 只有与 Type 对应的字段有意义。JSON 编码按 lexicon 的 union 成员输出，
// 成员自身的字段即使为空也会保留（例如 uri:""）。
type Feature struct {
	Type string `json:"$type"`
	URI  string `json:"uri,omitempty"`
	DID  string `json:"did,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

// Record 转换为 app.bsky.richtext.facet 的 features 元素
//
// 未知的 Type 返回 nil。
func (f Feature) Record() *bsky.RichtextFacet_Features_Elem {
	switch f.Type {
	case FeatureLink:
		return &bsky.RichtextFacet_Features_Elem{
			RichtextFacet_Link: &bsky.RichtextFacet_Link{LexiconTypeID: FeatureLink, Uri: f.URI},
		}
	case FeatureMention:
		return &bsky.RichtextFacet_Features_Elem{
			RichtextFacet_Mention: &bsky.RichtextFacet_Mention{LexiconTypeID: FeatureMention, Did: f.DID},
		}
	case FeatureTag:
		return &bsky.RichtextFacet_Features_Elem{
			RichtextFacet_Tag: &bsky.RichtextFacet_Tag{LexiconTypeID: FeatureTag, Tag: f.Tag},
		}
	}
	return nil
}

// MarshalJSON encodes the feature as its lexicon union member.
func (f Feature) MarshalJSON() ([]byte, error) {
	if rec := f.Record(); rec != nil {
		return json.Marshal(rec)
	}
	type plain Feature
	return json.Marshal(plain(f))
}

// ToMap 将 Feature 转换为 wire 格式的 map，只包含成员自身的字段
func (f Feature) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"$type": f.Type,
	}
	switch f.Type {
	case FeatureLink:
		m["uri"] = f.URI
	case FeatureMention:
		m["did"] = f.DID
	case FeatureTag:
		m["tag"] = f.Tag
	}
	return m
}

// Facet 表示最终文本上的一个字节区间标注
type Facet struct {
	Index    ByteSlice `json:"index"`
	Features []Feature `json:"features"`
}

// Record 转换为 app.bsky.richtext.facet 记录，可直接放入 app.bsky.feed.post
func (f Facet) Record() *bsky.RichtextFacet {
	features := make([]*bsky.RichtextFacet_Features_Elem, 0, len(f.Features))
	for _, feat := range f.Features {
		if rec := feat.Record(); rec != nil {
			features = append(features, rec)
		}
	}
	return &bsky.RichtextFacet{
		Index: &bsky.RichtextFacet_ByteSlice{
			ByteStart: int64(f.Index.ByteStart),
			ByteEnd:   int64(f.Index.ByteEnd),
		},
		Features: features,
	}
}

// ToMap 将 Facet 转换为 wire 格式的 map
func (f Facet) ToMap() map[string]interface{} {
	features := make([]map[string]interface{}, 0, len(f.Features))
	for _, feat := range f.Features {
		features = append(features, feat.ToMap())
	}
	return map[string]interface{}{
		"index": map[string]interface{}{
			"byteStart": f.Index.ByteStart,
			"byteEnd":   f.Index.ByteEnd,
		},
		"features": features,
	}
}

// FinalizedText 是提交时生成的最终负载
type FinalizedText struct {
	Text   string  `json:"text"`
	Facets []Facet `json:"facets"`
}
