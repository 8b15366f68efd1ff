// Package scraper extracts same-site navigation links from a homepage.
package scraper

import (
	"fmt"
	"io"
	"iter"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
)

// MaxLinkText is the longest link label kept, in runes.
const MaxLinkText = 50

var excludedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".css", ".js", ".pdf", ".zip"}

// Link is a candidate page found on the homepage.
type Link struct {
	Path     string
	LinkText string
}

// Scrape parses an HTML document and yields one Link per distinct same-origin page path,
// in document order. Only hrefs starting with "http" or "/" are considered.
func Scrape(r io.Reader, baseURL string) (iter.Seq[Link], error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: base %q", models.ErrInvalidURL, baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", models.ErrHomepageUnavailable, err)
	}

	return func(yield func(Link) bool) {
		seen := make(map[string]struct{})
		for _, a := range doc.Find("a[href]").EachIter() {
			link, ok := toLink(a, base)
			if !ok {
				continue
			}
			if _, dup := seen[link.Path]; dup {
				continue
			}
			seen[link.Path] = struct{}{}
			if !yield(link) {
				return
			}
		}
	}, nil
}

func toLink(a *goquery.Selection, base *url.URL) (Link, bool) {
	href := strings.TrimSpace(a.AttrOr("href", ""))
	if !strings.HasPrefix(href, "http") && !strings.HasPrefix(href, "/") {
		return Link{}, false
	}

	norm, err := urlnorm.Normalize(href, base.String())
	if err != nil {
		return Link{}, false
	}
	u, err := url.Parse(norm.AbsoluteURL)
	if err != nil || !urlnorm.SameHost(u, base) {
		return Link{}, false
	}
	if hasExcludedExtension(norm.Path) {
		return Link{}, false
	}

	text := strings.Join(strings.Fields(a.Text()), " ")
	if text == "" {
		text = urlnorm.PageNameFromPath(norm.Path)
	}
	return Link{Path: norm.Path, LinkText: truncate(text, MaxLinkText)}, true
}

func hasExcludedExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
