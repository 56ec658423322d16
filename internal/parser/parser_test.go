package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/riverfjs/richtext-go/internal/types"
)

func text(raw, txt string) types.Segment {
	return types.Segment{Kind: types.SegmentText, Raw: raw, Text: txt}
}

func plain(s string) types.Segment {
	return text(s, s)
}

func mention(handle string) types.Segment {
	return types.Segment{Kind: types.SegmentMention, Raw: "@" + handle, Text: "@" + handle, Handle: handle}
}

func tag(t string) types.Segment {
	return types.Segment{Kind: types.SegmentTag, Raw: "#" + t, Text: "#" + t, Tag: t}
}

func link(raw, display string) types.Segment {
	return types.Segment{Kind: types.SegmentLink, Raw: raw, Text: display, URI: raw}
}

var escape = types.Segment{Kind: types.SegmentEscape, Raw: `\`, Text: ""}

func TestScan_Segments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.Segment
	}{
		{
			name:  "mention between words",
			input: "hello @bob.test world",
			want:  []types.Segment{plain("hello "), mention("bob.test"), plain(" world")},
		},
		{
			name:  "tag at start of input",
			input: "#greet there",
			want:  []types.Segment{tag("greet"), plain(" there")},
		},
		{
			name:  "mid-word hash is text",
			input: "well#not",
			want:  []types.Segment{plain("well#not")},
		},
		{
			name:  "mid-word at is text",
			input: "mail me@bob.test",
			want:  []types.Segment{plain("mail me@bob.test")},
		},
		{
			name:  "mention right after mention",
			input: "@bob.test@alice.test",
			want:  []types.Segment{mention("bob.test"), mention("alice.test")},
		},
		{
			name:  "tag swallows following hash",
			input: "#a#b c",
			want:  []types.Segment{tag("a#b"), plain(" c")},
		},
		{
			name:  "tag ends at newline",
			input: "#go\nnext",
			want:  []types.Segment{tag("go"), plain("\nnext")},
		},
		{
			name:  "lone hash",
			input: "# x",
			want:  []types.Segment{plain("# x")},
		},
		{
			name:  "handle without domain",
			input: "@bob",
			want:  []types.Segment{plain("@bob")},
		},
		{
			name:  "handle backtracks to letter tld",
			input: "@bob.test2",
			want:  []types.Segment{mention("bob.test"), plain("2")},
		},
		{
			name:  "mention after newline",
			input: "a  \n@bob.test",
			want:  []types.Segment{text("a  \n", "a\n"), mention("bob.test")},
		},
		{
			name:  "escaped at",
			input: `\@bob.test`,
			want:  []types.Segment{escape, plain("@"), plain("bob.test")},
		},
		{
			name:  "escaped backslash",
			input: `\\`,
			want:  []types.Segment{escape, plain(`\`)},
		},
		{
			name:  "backslash before ordinary char",
			input: `a\b`,
			want:  []types.Segment{plain("a"), plain(`\b`)},
		},
		{
			name:  "trailing whitespace at end of input",
			input: "hi  \nthere  \n ",
			want:  []types.Segment{text("hi  \nthere  \n ", "hi\nthere")},
		},
		{
			name:  "trailing nbsp and bom trimmed",
			input: "hi\u00a0\ufeff",
			want:  []types.Segment{text("hi\u00a0\ufeff", "hi")},
		},
		{
			name:  "trailing next-line kept",
			input: "hi\u0085",
			want:  []types.Segment{plain("hi\u0085")},
		},
		{
			name:  "autolink with balanced paren and trailing dot",
			input: "see https://example.com/a(b).",
			want: []types.Segment{
				plain("see "),
				link("https://example.com/a(b)", "example.com/a(b)"),
				plain("."),
			},
		},
		{
			name:  "autolink drops unbalanced closing paren",
			input: "(see https://x.test/a)",
			want: []types.Segment{
				plain("(see "),
				link("https://x.test/a", "x.test/a"),
				plain(")"),
			},
		},
		{
			name:  "plain http autolink",
			input: "go http://x.test now",
			want:  []types.Segment{plain("go "), link("http://x.test", "x.test"), plain(" now")},
		},
		{
			name:  "autolink trims comma and semicolon",
			input: "https://x.test/p,; ok",
			want:  []types.Segment{link("https://x.test/p", "x.test/p"), plain(",; ok")},
		},
		{
			name:  "scheme followed by space",
			input: "https:// x",
			want:  []types.Segment{plain("https:// x")},
		},
		{
			name:  "autolink keeps space before newline in preceding text",
			input: "a \nhttps://x.test",
			want:  []types.Segment{text("a \n", "a\n"), link("https://x.test", "x.test")},
		},
		{
			name:  "unclosed markdown link",
			input: "[x](y",
			want:  []types.Segment{plain("[x](y")},
		},
		{
			name:  "brackets without target",
			input: "[x] y",
			want:  []types.Segment{plain("[x] y")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.input, Options{})
			if !reflect.DeepEqual(got.Segments, tt.want) {
				t.Errorf("Scan(%q) segments =\n  %+v\nwant\n  %+v", tt.input, got.Segments, tt.want)
			}
		})
	}
}

func TestScan_MdLinkEscapedLabel(t *testing.T) {
	input := `[a\]b](https://x.test)`
	got := Scan(input, Options{})
	if len(got.Segments) != 1 {
		t.Fatalf("Scan(%q) = %d segments, want 1", input, len(got.Segments))
	}
	seg := got.Segments[0]
	want := types.Segment{
		Kind:     types.SegmentMdLink,
		Raw:      input,
		RawParts: &[5]string{"[", `a\]b`, "](", "https://x.test", ")"},
		Text:     "a]b",
		URI:      "https://x.test",
		Valid:    true,
	}
	if !reflect.DeepEqual(seg, want) {
		t.Errorf("Scan(%q) = %+v, want %+v", input, seg, want)
	}
	if !reflect.DeepEqual(got.Links, []string{"https://x.test/"}) {
		t.Errorf("Links = %v, want [https://x.test/]", got.Links)
	}
}

func TestScan_MdLinkEscapedTarget(t *testing.T) {
	input := `[l](https://x.test/a\)b) after`
	got := Scan(input, Options{})
	if len(got.Segments) != 2 {
		t.Fatalf("Scan(%q) = %d segments, want 2", input, len(got.Segments))
	}
	seg := got.Segments[0]
	if seg.URI != "https://x.test/a)b" {
		t.Errorf("URI = %q, want %q", seg.URI, "https://x.test/a)b")
	}
	if seg.RawParts[3] != `https://x.test/a\)b` {
		t.Errorf("raw target = %q, want %q", seg.RawParts[3], `https://x.test/a\)b`)
	}
	if !seg.Valid || len(got.Links) != 1 {
		t.Errorf("Valid = %v, links = %v; want valid with one link", seg.Valid, got.Links)
	}
	if got.Segments[1] != plain(" after") {
		t.Errorf("second segment = %+v, want text \" after\"", got.Segments[1])
	}
}

func TestScan_MdLinkInvalidTarget(t *testing.T) {
	got := Scan("[x](not a url)", Options{})
	if len(got.Segments) != 1 || got.Segments[0].Kind != types.SegmentMdLink {
		t.Fatalf("Scan() = %+v, want one mdlink", got.Segments)
	}
	seg := got.Segments[0]
	if seg.Valid {
		t.Error("Valid = true, want false")
	}
	if seg.URI != "not a url" || seg.Text != "x" {
		t.Errorf("URI = %q, Text = %q", seg.URI, seg.Text)
	}
	if len(got.Links) != 0 {
		t.Errorf("Links = %v, want none", got.Links)
	}
}

func TestScan_Links(t *testing.T) {
	input := "a https://one.test [b](https://two.test/x) [c](ftp://no) http://three.test"
	got := Scan(input, Options{})
	want := []string{"https://one.test", "https://two.test/x", "http://three.test"}
	if !reflect.DeepEqual(got.Links, want) {
		t.Errorf("Links = %v, want %v", got.Links, want)
	}
}

func TestScan_CustomCollaborators(t *testing.T) {
	opts := Options{
		URLParser: func(raw string) (string, bool) { return "norm:" + raw, true },
		Shortener: func(raw string) string { return "<link>" },
	}
	got := Scan("[x](anything) https://x.test", opts)
	if got.Segments[0].Valid != true || got.Links[0] != "norm:anything" {
		t.Errorf("mdlink = %+v, links = %v", got.Segments[0], got.Links)
	}
	last := got.Segments[len(got.Segments)-1]
	if last.Kind != types.SegmentLink || last.Text != "<link>" {
		t.Errorf("link segment = %+v, want display <link>", last)
	}
}

func TestScan_Empty(t *testing.T) {
	got := Scan("", Options{})
	if len(got.Segments) != 0 || len(got.Links) != 0 {
		t.Errorf("Scan(\"\") = %+v, want nothing", got)
	}
}

var roundTripInputs = []string{
	"",
	"plain text",
	"hello @bob.test world",
	`[a\]b](https://x.test) \@ \# \[ \\ \x`,
	"see https://example.com/a(b). and (https://x.test/y)",
	"trailing   \n  spaces \n",
	"@@@###[[[]]]((()))\\\\",
	"emoji 👨‍👩‍👧‍👦 #タグ @日本.test",
	"[unterminated](https://x.test",
	"https://x.test/\nhttps://y.test/;",
}

func joinRaw(p *types.ParsedText) string {
	var sb strings.Builder
	for _, seg := range p.Segments {
		sb.WriteString(seg.Raw)
	}
	return sb.String()
}

func TestScan_RawRoundTrip(t *testing.T) {
	for _, input := range roundTripInputs {
		if got := joinRaw(Scan(input, Options{})); got != input {
			t.Errorf("raw round trip of %q = %q", input, got)
		}
	}
}

func TestScan_Deterministic(t *testing.T) {
	for _, input := range roundTripInputs {
		a := Scan(input, Options{})
		b := Scan(input, Options{})
		if !reflect.DeepEqual(a.Segments, b.Segments) || !reflect.DeepEqual(a.Links, b.Links) {
			t.Errorf("Scan(%q) is not deterministic", input)
		}
	}
}

func TestScan_MdLinkRawPartsJoin(t *testing.T) {
	p := Scan(`x [l\\](https://a.test/\)) y`, Options{})
	for _, seg := range p.Segments {
		if seg.Kind != types.SegmentMdLink {
			continue
		}
		if got := strings.Join(seg.RawParts[:], ""); got != seg.Raw {
			t.Errorf("RawParts join = %q, Raw = %q", got, seg.Raw)
		}
		if seg.Text != `l\` {
			t.Errorf("Text = %q, want %q", seg.Text, `l\`)
		}
	}
}

func FuzzScan(f *testing.F) {
	for _, input := range roundTripInputs {
		f.Add(input)
	}
	f.Fuzz(func(t *testing.T, input string) {
		p := Scan(input, Options{})
		if got := joinRaw(p); got != input {
			t.Fatalf("raw round trip of %q = %q", input, got)
		}
	})
}
