package richtext

import (
	"time"

	"github.com/bluesky-social/indigo/api/bsky"

	"github.com/riverfjs/richtext-go/internal/util"
)

// UTF8Len returns the length of text measured in UTF-8 bytes.
//
// Facet offsets are byte offsets into the UTF-8 encoding of the final text,
// not Go runes, UTF-16 code units or graphemes. Pure-ASCII text takes a fast
// path; invalid bytes count as the U+FFFD they are encoded as.
func UTF8Len(text string) int {
	return util.UTF8Len(text)
}

// FacetText returns the part of text covered by facet.
//
// It returns "" when the facet range does not fit in text.
func FacetText(text string, facet Facet) string {
	start, end := facet.Index.ByteStart, facet.Index.ByteEnd
	if start < 0 || end < start || end > len(text) {
		return ""
	}
	return text[start:end]
}

// FacetsOf returns the facets carrying a feature of the given $type.
func FacetsOf(facets []Facet, featureType string) []Facet {
	result := []Facet{}
	for _, f := range facets {
		for _, feat := range f.Features {
			if feat.Type == featureType {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// FacetMaps converts facets to their wire map form.
func FacetMaps(facets []Facet) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(facets))
	for _, f := range facets {
		result = append(result, f.ToMap())
	}
	return result
}

// RecordFacets converts facets to app.bsky.richtext.facet records.
func RecordFacets(facets []Facet) []*bsky.RichtextFacet {
	result := make([]*bsky.RichtextFacet, 0, len(facets))
	for _, f := range facets {
		result = append(result, f.Record())
	}
	return result
}

// PostRecord builds the app.bsky.feed.post record for a finalized text.
func PostRecord(out *FinalizedText, createdAt time.Time) *bsky.FeedPost {
	post := &bsky.FeedPost{
		LexiconTypeID: "app.bsky.feed.post",
		Text:          out.Text,
		CreatedAt:     createdAt.UTC().Format(time.RFC3339Nano),
	}
	if len(out.Facets) > 0 {
		post.Facets = RecordFacets(out.Facets)
	}
	return post
}
