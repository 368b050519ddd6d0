package urlpattern

import (
	"strings"
	"unicode/utf8"
)

// InferBaseURL returns the scheme+host+path prefix shared by urls.
// It needs at least two URLs on a single host; otherwise the second result is false.
// The scheme of the result is always https.
func InferBaseURL(urls []string) (string, bool) {
	if len(urls) < 2 {
		return "", false
	}

	host := ""
	paths := make([]string, 0, len(urls))
	for i, raw := range urls {
		h, p := splitHostPath(raw)
		if i == 0 {
			host = h
		} else if h != host {
			return "", false
		}
		paths = append(paths, p)
	}

	prefix := strings.TrimRightFunc(commonPrefix(paths), isTokenRune)
	base := "https://" + host + prefix
	return strings.TrimSuffix(base, "/"), true
}

// BuildEventURL joins a base URL and an identifier with a single slash.
func BuildEventURL(baseURL, identifier string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + identifier
}

// splitHostPath returns the authority and the path of raw exactly as written. The path
// ends at the first '?' or '#'; nothing is decoded or re-encoded.
func splitHostPath(raw string) (string, string) {
	rest := raw
	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		rest = rest[i+1:]
	}
	host := ""
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		host, rest = rest[:end], rest[end:]
	}
	if end := strings.IndexAny(rest, "?#"); end >= 0 {
		rest = rest[:end]
	}
	return host, rest
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// commonPrefix never splits a multi-byte character.
func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		n := 0
		for n < len(prefix) && n < len(v) && prefix[n] == v[n] {
			n++
		}
		for n > 0 && n < len(prefix) && !utf8.RuneStart(prefix[n]) {
			n--
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	default:
		return false
	}
}
