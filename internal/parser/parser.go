package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/riverfjs/richtext-go/internal/types"
	"github.com/riverfjs/richtext-go/internal/util"
)

// Options 扫描器依赖的外部协作者，零值字段使用默认实现
type Options struct {
	// URLParser validates a markdown link target and returns its normalized href.
	URLParser func(raw string) (string, bool)
	// Shortener produces the display label of an autolinked URL.
	Shortener func(raw string) string
}

func (o Options) withDefaults() Options {
	if o.URLParser == nil {
		o.URLParser = util.SafeURLParse
	}
	if o.Shortener == nil {
		o.Shortener = util.ToShortURL
	}
	return o
}

// mentionPattern matches a domain-like handle: dot separated groups whose last
// group is at least two letters.
var mentionPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*(?:\.[a-zA-Z]{2,})`)

// spaceBeforeNewline matches spaces that sit right before a line break.
var spaceBeforeNewline = regexp.MustCompile(` +\n`)

// Scanner 单趟扫描源文本，生成片段和链接列表
type Scanner struct {
	src      string
	opts     Options
	segments []types.Segment
	links    []string
}

// Scan 扫描 source 并返回 ParsedText，任何畸形结构都退化为普通文本
func Scan(source string, opts Options) *types.ParsedText {
	s := &Scanner{
		src:      source,
		opts:     opts.withDefaults(),
		segments: make([]types.Segment, 0),
		links:    make([]string, 0),
	}
	for idx := 0; idx < len(s.src); {
		idx = s.step(idx)
	}
	return &types.ParsedText{
		Segments: s.segments,
		Links:    s.links,
	}
}

// step dispatches on the byte at idx and returns the new cursor.
//
// Mention and tag detection here never looks at the preceding byte: only the
// run scanner treats '@' and '#' as a word-boundary stop.
func (s *Scanner) step(idx int) int {
	switch s.src[idx] {
	case '@':
		if next, ok := s.tryMention(idx); ok {
			return next
		}
	case '#':
		if next, ok := s.tryTag(idx); ok {
			return next
		}
	case '[':
		if next, ok := s.tryMdLink(idx); ok {
			return next
		}
	case '\\':
		if next, ok := s.tryEscape(idx); ok {
			return next
		}
	}
	return s.scanRun(idx)
}

func (s *Scanner) push(seg types.Segment) {
	s.segments = append(s.segments, seg)
}

// tryMention 尝试在 idx 处匹配 @handle
func (s *Scanner) tryMention(idx int) (int, bool) {
	loc := mentionPattern.FindStringIndex(s.src[idx+1:])
	if loc == nil {
		return idx, false
	}
	end := idx + 1 + loc[1]
	handle := s.src[idx+1 : end]
	raw := "@" + handle
	s.push(types.Segment{
		Kind:   types.SegmentMention,
		Raw:    raw,
		Text:   raw,
		Handle: handle,
	})
	return end, true
}

// tryTag 尝试在 idx 处匹配 #tag，标签延伸到空格或换行
func (s *Scanner) tryTag(idx int) (int, bool) {
	end := idx + 1
	for end < len(s.src) && s.src[end] != ' ' && s.src[end] != '\n' {
		end++
	}
	if end == idx+1 {
		return idx, false
	}
	tag := s.src[idx+1 : end]
	raw := "#" + tag
	s.push(types.Segment{
		Kind: types.SegmentTag,
		Raw:  raw,
		Text: raw,
		Tag:  tag,
	})
	return end, true
}

// tryMdLink 尝试在 idx 处匹配 [label](target)
func (s *Scanner) tryMdLink(idx int) (int, bool) {
	labelStart := idx + 1
	label, labelRaw, labelEnd := s.scanEscaped(labelStart, ']')
	if labelEnd+1 >= len(s.src) || s.src[labelEnd] != ']' || s.src[labelEnd+1] != '(' {
		return idx, false
	}

	targetStart := labelEnd + 2
	target, targetRaw, targetEnd := s.scanEscaped(targetStart, ')')
	if targetEnd >= len(s.src) || s.src[targetEnd] != ')' {
		return idx, false
	}

	href, valid := s.opts.URLParser(target)
	if valid {
		s.links = append(s.links, href)
	}

	end := targetEnd + 1
	s.push(types.Segment{
		Kind:     types.SegmentMdLink,
		Raw:      s.src[idx:end],
		RawParts: &[5]string{"[", labelRaw, "](", targetRaw, ")"},
		Text:     label,
		URI:      target,
		Valid:    valid,
	})
	return end, true
}

// scanEscaped reads from start until an unescaped closer. A backslash followed
// by the closer or another backslash is dropped from text but kept in raw.
// The returned end is the index of the closer, or len(src) when missing.
func (s *Scanner) scanEscaped(start int, closer byte) (text, raw string, end int) {
	var tb strings.Builder
	flushed := start
	end = start
	for ; end < len(s.src); end++ {
		c := s.src[end]
		if c == closer {
			break
		}
		if c == '\\' && end+1 < len(s.src) {
			next := s.src[end+1]
			if next == closer || next == '\\' {
				tb.WriteString(s.src[flushed:end])
				end++
				flushed = end
			}
		}
	}
	tb.WriteString(s.src[flushed:end])
	return tb.String(), s.src[start:end], end
}

// tryEscape 处理 \@ \# \[ \\ 转义
func (s *Scanner) tryEscape(idx int) (int, bool) {
	if idx+1 >= len(s.src) {
		return idx, false
	}
	switch next := s.src[idx+1]; next {
	case '@', '#', '[', '\\':
		ch := string(next)
		s.push(types.Segment{Kind: types.SegmentEscape, Raw: `\`, Text: ""})
		s.push(types.Segment{Kind: types.SegmentText, Raw: ch, Text: ch})
		return idx + 2, true
	}
	return idx, false
}

// tryAutolink checks whether the colon at colon starts an http(s) autolink
// inside the run beginning at runStart, and returns the trimmed link bounds.
func (s *Scanner) tryAutolink(runStart, colon int) (start, end int, ok bool) {
	src := s.src
	if len(src)-colon < 4 || src[colon+1] != '/' || src[colon+2] != '/' {
		return 0, 0, false
	}
	if c := src[colon+3]; c == ' ' || c == '\n' {
		return 0, 0, false
	}

	switch {
	case colon-runStart >= 5 && src[colon-5:colon] == "https":
		start = colon - 5
	case colon-runStart >= 4 && src[colon-4:colon] == "http":
		start = colon - 4
	default:
		return 0, 0, false
	}

	hasParen := false
	for end = colon + 3; end < len(src); end++ {
		c := src[end]
		if c == ' ' || c == '\n' {
			break
		}
		if c == '(' {
			hasParen = true
		}
	}

	// Trailing punctuation is never part of the link; a lone closing paren
	// is kept only when the link opened one.
	for end > start {
		c := src[end-1]
		if c == '.' || c == ',' || c == ';' {
			end--
			continue
		}
		if !hasParen && c == ')' {
			end--
		}
		break
	}
	return start, end, true
}

// scanRun 处理普通文本，直到遇到需要外层分派的字符或自动链接
func (s *Scanner) scanRun(idx int) int {
	src := s.src
	end := idx + 1
	for ; end < len(src); end++ {
		c := src[end]
		if c == '\\' || c == '[' {
			break
		}
		if c == '@' || c == '#' {
			if prev := src[end-1]; prev == ' ' || prev == '\n' {
				break
			}
			continue
		}
		if c != ':' {
			continue
		}

		start, linkEnd, ok := s.tryAutolink(idx, end)
		if !ok {
			continue
		}
		if start > idx {
			s.pushText(src[idx:start], false)
		}
		raw := src[start:linkEnd]
		s.push(types.Segment{
			Kind: types.SegmentLink,
			Raw:  raw,
			Text: s.opts.Shortener(raw),
			URI:  raw,
		})
		s.links = append(s.links, raw)
		return linkEnd
	}

	s.pushText(src[idx:end], end == len(src))
	return end
}

// pushText 添加文本片段。换行前的空格总会被去掉，输入末尾的文本还会去掉所有尾随空白
func (s *Scanner) pushText(raw string, atEOF bool) {
	text := raw
	if atEOF {
		text = strings.TrimRightFunc(text, isSpace)
	}
	text = spaceBeforeNewline.ReplaceAllString(text, "\n")
	s.push(types.Segment{
		Kind: types.SegmentText,
		Raw:  raw,
		Text: text,
	})
}

// isSpace matches the ECMAScript \s set: Unicode White_Space minus NEL, plus BOM.
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
