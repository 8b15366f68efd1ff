package sitemap

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dtnitsch/seo-companion/models"
)

// Namespace is the sitemaps.org 0.9 schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Serialize renders pages as a sitemap. Each <loc> is baseURL followed by the page path.
// lastmod, changefreq and priority are written only when set.
func Serialize(pages []models.PageRecord, baseURL string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", models.ErrBaseURLMissing
	}

	set := urlSet{Xmlns: Namespace, URLs: make([]urlEntry, 0, len(pages))}
	for _, p := range pages {
		path := p.PageURL
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		entry := urlEntry{
			Loc:        base + path,
			LastMod:    p.LastModified,
			ChangeFreq: string(p.ChangeFrequency),
		}
		if p.Priority != nil {
			entry.Priority = FormatPriority(*p.Priority)
		}
		set.URLs = append(set.URLs, entry)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

// FormatPriority writes p with exactly one decimal digit, rounding half away from zero.
// Values outside [0, 1] are clamped.
func FormatPriority(p float64) string {
	p = math.Min(math.Max(p, 0), 1)
	return strconv.FormatFloat(math.Round(p*10)/10, 'f', 1, 64)
}
