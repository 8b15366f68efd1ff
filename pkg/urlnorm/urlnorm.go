// Package urlnorm canonicalizes user- and site-supplied URLs into absolute URLs and registry paths.
package urlnorm

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtnitsch/seo-companion/models"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	schemePattern       = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	extensionPattern    = regexp.MustCompile(`\.[^.]*$`)
)

// Normalized is a URL resolved against the site, plus its registry path.
type Normalized struct {
	AbsoluteURL string
	Path        string
}

// Normalize turns raw into an absolute URL and path.
// Input with a scheme is parsed as absolute. Input starting with "/" is resolved against base,
// anything else is prefixed with "/" first. Fragments are dropped and an empty path becomes "/".
func Normalize(raw, base string) (Normalized, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Normalized{}, fmt.Errorf("%w: empty input", models.ErrInvalidURL)
	}

	var u *url.URL
	if schemePattern.MatchString(raw) {
		parsed, err := url.Parse(raw)
		if err != nil {
			return Normalized{}, fmt.Errorf("%w: %q: %v", models.ErrInvalidURL, raw, err)
		}
		if parsed.Host == "" {
			return Normalized{}, fmt.Errorf("%w: %q has no host", models.ErrInvalidURL, raw)
		}
		u = parsed
	} else {
		b, err := parseAbsolute(base)
		if err != nil {
			return Normalized{}, fmt.Errorf("%w: cannot resolve %q: %v", models.ErrInvalidURL, raw, err)
		}
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return Normalized{}, fmt.Errorf("%w: %q: %v", models.ErrInvalidURL, raw, err)
		}
		u = b.ResolveReference(ref)
	}

	u.Fragment = ""
	u.RawFragment = ""
	path := u.EscapedPath()
	if path == "" {
		path = "/"
		u.Path = "/"
	}
	return Normalized{AbsoluteURL: u.String(), Path: path}, nil
}

// CleanBaseURL sanitizes a site base URL and strips the trailing slash.
// Only http and https URLs with a host are accepted.
func CleanBaseURL(raw string) (string, error) {
	cleaned := SanitizeURL(raw)
	if cleaned == "" {
		return "", models.ErrBaseURLMissing
	}
	u, err := parseAbsolute(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	return strings.TrimRight(u.String(), "/"), nil
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, markdown link wrappers and stray leading or trailing punctuation.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// SameHost reports whether both URLs name the same hostname.
func SameHost(a, b *url.URL) bool {
	return strings.EqualFold(a.Hostname(), b.Hostname())
}

// SiteName derives a display name from a hostname: leading "www." and the public
// suffix are removed and the first remaining label is title-cased.
// "www.montreal4rent.com" becomes "Montreal4rent".
func SiteName(hostname string) string {
	host := strings.TrimPrefix(strings.ToLower(hostname), "www.")
	if host == "" {
		return hostname
	}
	if net.ParseIP(host) != nil {
		return host
	}

	rest := host
	if suffix, _ := publicsuffix.PublicSuffix(host); suffix != "" && suffix != host {
		rest = strings.TrimSuffix(host, "."+suffix)
	}
	label, _, _ := strings.Cut(rest, ".")
	return cases.Title(language.English).String(label)
}

// SiteNameFromURL is SiteName applied to the host of rawURL.
func SiteNameFromURL(rawURL string) (string, error) {
	u, err := parseAbsolute(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}
	return SiteName(u.Hostname()), nil
}

// PageNameFromPath derives a label from the last path segment:
// "/condo-rentals" becomes "Condo Rentals", "/" becomes "Home".
func PageNameFromPath(path string) string {
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	var last string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			last = part
		}
	}
	if last == "" {
		return "Home"
	}

	last = extensionPattern.ReplaceAllString(last, "")
	var words []string
	for _, word := range strings.Split(last, "-") {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words = append(words, string(unicode.ToUpper(r))+word[size:])
	}
	if len(words) == 0 {
		return "Home"
	}
	return strings.Join(words, " ")
}

func parseAbsolute(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, models.ErrBaseURLMissing
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme in %q", raw)
	}
	if u.Host == "" || strings.ContainsAny(u.Host, "{}<>\"'") {
		return nil, fmt.Errorf("no valid host in %q", raw)
	}
	return u, nil
}
