// Package pathurl maps local filesystem paths to and from the pathurl values
// stored in xmeml documents.
package pathurl

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Flavor selects how written pathurl values are spelled for a target editor.
type Flavor string

const (
	// FlavorPremiere writes bare absolute paths.
	FlavorPremiere Flavor = "premiere"
	// FlavorResolve writes file:// URIs.
	FlavorResolve Flavor = "resolve"
)

// ParseFlavor normalizes a user supplied flavor name.
func ParseFlavor(value string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FlavorPremiere):
		return FlavorPremiere, nil
	case string(FlavorResolve):
		return FlavorResolve, nil
	default:
		return "", fmt.Errorf("unknown flavor %q (want premiere or resolve)", value)
	}
}

// ToPath converts a pathurl value into a local path. Both file:// URIs and
// plain paths are accepted. An empty or localhost host yields a local path;
// any other host is kept as a network path of the form //host/path.
func ToPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("pathurl: empty value")
	}
	if !hasFileScheme(trimmed) {
		return filepath.Clean(filepath.FromSlash(trimmed)), nil
	}

	var host, p string
	if parsed, err := url.Parse(trimmed); err == nil {
		host, p = parsed.Host, parsed.Path
		if p == "" && parsed.Opaque != "" {
			// file:relative/path
			p = unescapeLenient(parsed.Opaque)
		}
	} else {
		host, p = splitFileURI(trimmed)
	}
	if isDrivePath(p) {
		p = p[1:]
	}

	if host == "" || strings.EqualFold(host, "localhost") {
		return filepath.Clean(filepath.FromSlash(p)), nil
	}
	return "//" + host + filepath.ToSlash(filepath.Clean("/"+strings.TrimPrefix(p, "/"))), nil
}

// Resolve makes path absolute and spells it for the given flavor.
func Resolve(path string, flavor Flavor) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if flavor != FlavorResolve {
		return abs, nil
	}
	return FileURI(abs), nil
}

// FileURI renders an absolute path as a percent-encoded file:// URI.
func FileURI(abs string) string {
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

func hasFileScheme(value string) bool {
	return len(value) >= 5 && strings.EqualFold(value[:5], "file:")
}

func isDrivePath(p string) bool {
	return len(p) >= 3 && p[0] == '/' && p[2] == ':' &&
		((p[1] >= 'a' && p[1] <= 'z') || (p[1] >= 'A' && p[1] <= 'Z'))
}

// splitFileURI separates host and path of a file URI that net/url rejects,
// usually because of a bare '%' in the file name.
func splitFileURI(uri string) (host, path string) {
	rest := uri[len("file:"):]
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			host, rest = rest[:i], rest[i:]
		} else {
			host, rest = rest, ""
		}
	}
	return host, unescapeLenient(rest)
}

// unescapeLenient decodes valid %XX sequences and keeps malformed ones as
// literal text.
func unescapeLenient(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
