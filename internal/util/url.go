package util

import (
	"net/url"
	"strings"
	"unicode/utf8"

	gutil "github.com/yuin/goldmark/util"
)

// DefaultShortURLPathLimit is the longest path ToShortURL shows before truncating.
const DefaultShortURLPathLimit = 16

// SafeURLParse validates a markdown link target.
//
// Only absolute http(s) URLs with a host are accepted. The returned href is
// normalized: spaces and non-ASCII bytes are percent-encoded, scheme and host
// are lowercased, and an empty path becomes "/".
func SafeURLParse(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	escaped := string(gutil.URLEscape([]byte(raw), false))

	u, err := url.Parse(escaped)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" || u.Opaque != "" {
		return "", false
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u.String(), true
}

// ToShortURL returns a compact label for an autolinked URL using the default path limit.
func ToShortURL(href string) string {
	return ShortenURL(href, DefaultShortURLPathLimit)
}

// ShortenURL drops the scheme of an http(s) URL and truncates long paths.
// Anything it cannot parse is returned unchanged.
//
//	https://example.com/             -> example.com
//	https://example.com/a/very/long/path/here -> example.com/a/very/long/...
func ShortenURL(href string, limit int) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return href
	}
	if limit <= 3 {
		limit = DefaultShortURLPathLimit
	}

	host := u.Host
	path := ""
	if host != "" {
		path = u.EscapedPath()
	}
	if u.RawQuery != "" || u.ForceQuery {
		path += "?" + string(gutil.URLEscape([]byte(u.RawQuery), false))
	}
	if u.Fragment != "" {
		path += "#" + u.EscapedFragment()
	}

	if len(path) > limit {
		cut := limit - 3
		for cut > 0 && !utf8.RuneStart(path[cut]) {
			cut--
		}
		return host + path[:cut] + "..."
	}
	if path == "/" {
		return host
	}
	return host + path
}
