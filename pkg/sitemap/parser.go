// Package sitemap reads and writes sitemaps.org protocol documents.
package sitemap

import (
	"fmt"
	"io"
	"iter"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
)

var (
	urlExpr     = xpath.MustCompile("//url")
	sitemapExpr = xpath.MustCompile("//sitemap")
)

// Entry is one <url> element. Optional fields are zero or nil when the element is absent
// or its value cannot be used.
type Entry struct {
	Loc             string
	Path            string
	SameOrigin      bool
	LastModified    string
	ChangeFrequency models.ChangeFrequency
	Priority        *float64
}

// Document is a parsed sitemap or sitemap index.
type Document struct {
	root *xmlquery.Node
	base *url.URL
}

// Parse reads a sitemap document. baseURL resolves relative <loc> values and decides
// Entry.SameOrigin; it may be empty, in which case every absolute loc is accepted as-is.
// Malformed XML, or a body without a root element, returns ErrSitemapUnavailable.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed xml: %v", models.ErrSitemapUnavailable, err)
	}
	if xmlquery.FindOne(doc, "//*") == nil {
		return nil, fmt.Errorf("%w: document has no root element", models.ErrSitemapUnavailable)
	}

	d := &Document{root: doc}
	if baseURL != "" {
		b, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: base %q: %v", models.ErrInvalidURL, baseURL, err)
		}
		d.base = b
	}
	return d, nil
}

// IsIndex reports whether the root element is <sitemapindex>.
func (d *Document) IsIndex() bool {
	root := xmlquery.FindOne(d.root, "//*")
	return root != nil && root.Data == "sitemapindex"
}

// Entries yields one Entry per <url> element with a usable <loc> child, in document order.
func (d *Document) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		it := urlExpr.Select(xmlquery.CreateXPathNavigator(d.root))
		for it.MoveNext() {
			n := it.Current().(*xmlquery.NodeNavigator).Current()
			e, ok := d.entry(n)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Sitemaps returns the child sitemap locations of a sitemap index.
func (d *Document) Sitemaps() []string {
	var locs []string
	it := sitemapExpr.Select(xmlquery.CreateXPathNavigator(d.root))
	for it.MoveNext() {
		n := it.Current().(*xmlquery.NodeNavigator).Current()
		loc := childText(n, "loc")
		if loc == "" {
			continue
		}
		norm, err := urlnorm.Normalize(loc, d.baseString())
		if err != nil {
			continue
		}
		locs = append(locs, norm.AbsoluteURL)
	}
	return locs
}

func (d *Document) entry(n *xmlquery.Node) (Entry, bool) {
	loc := childText(n, "loc")
	if loc == "" {
		return Entry{}, false
	}
	norm, err := urlnorm.Normalize(loc, d.baseString())
	if err != nil {
		return Entry{}, false
	}

	e := Entry{
		Loc:          norm.AbsoluteURL,
		Path:         norm.Path,
		SameOrigin:   true,
		LastModified: parseLastMod(childText(n, "lastmod")),
		Priority:     parsePriority(childText(n, "priority")),
	}
	if d.base != nil {
		if u, err := url.Parse(norm.AbsoluteURL); err == nil {
			e.SameOrigin = urlnorm.SameHost(u, d.base)
		}
	}
	if freq, err := models.ParseChangeFrequency(childText(n, "changefreq")); err == nil {
		e.ChangeFrequency = freq
	}
	return e, true
}

func (d *Document) baseString() string {
	if d.base == nil {
		return ""
	}
	return d.base.String()
}

// childText returns the trimmed text of the first direct child element named name.
func childText(n *xmlquery.Node, name string) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return strings.TrimSpace(c.InnerText())
		}
	}
	return ""
}

// parseLastMod keeps the calendar date of a W3C datetime. Unparsable values are dropped.
func parseLastMod(s string) string {
	if len(s) < len(models.DateLayout) {
		return ""
	}
	day := s[:len(models.DateLayout)]
	if _, err := time.Parse(models.DateLayout, day); err != nil {
		return ""
	}
	return day
}

func parsePriority(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
