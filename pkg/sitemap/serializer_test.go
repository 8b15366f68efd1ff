package sitemap

import (
	"math"
	"strings"
	"testing"

	"github.com/dtnitsch/seo-companion/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	pages := []models.PageRecord{
		{ID: "1", PageURL: "/", LastModified: "2024-03-01", ChangeFrequency: models.ChangeDaily, Priority: models.Float(1)},
		{ID: "2", PageURL: "/apartments", Priority: models.Float(0.86)},
		{ID: "3", PageURL: "/search?q=a&b=c"},
	}

	out, err := Serialize(pages, "https://example.com/")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://example.com/</loc>")
	assert.Contains(t, out, "<lastmod>2024-03-01</lastmod>")
	assert.Contains(t, out, "<changefreq>daily</changefreq>")
	assert.Contains(t, out, "<priority>1.0</priority>")
	assert.Contains(t, out, "<priority>0.9</priority>")
	assert.Contains(t, out, "<loc>https://example.com/search?q=a&amp;b=c</loc>")
	assert.Equal(t, 3, strings.Count(out, "<url>"))
	assert.Equal(t, 1, strings.Count(out, "<lastmod>"))
	assert.Equal(t, 1, strings.Count(out, "<changefreq>"))
	assert.Equal(t, 2, strings.Count(out, "<priority>"))
}

func TestSerializeRequiresBaseURL(t *testing.T) {
	_, err := Serialize([]models.PageRecord{{PageURL: "/"}}, "  ")
	assert.ErrorIs(t, err, models.ErrBaseURLMissing)
}

func TestFormatPriority(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.86, "0.9"},
		{0.84, "0.8"},
		{0.25, "0.3"},
		{1, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{-0.04, "0.0"},
		{math.Copysign(0, -1), "0.0"},
		{-3, "0.0"},
		{1.04, "1.0"},
		{7, "1.0"},
	}
	for _, tt := range tests {
		if got := FormatPriority(tt.in); got != tt.want {
			t.Errorf("FormatPriority(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSerializeThenParse(t *testing.T) {
	pages := []models.PageRecord{
		{PageURL: "/", LastModified: "2024-03-01", ChangeFrequency: models.ChangeDaily, Priority: models.Float(1)},
		{PageURL: "/apartments", LastModified: "2024-02-11", ChangeFrequency: models.ChangeWeekly, Priority: models.Float(0.9)},
		{PageURL: "/contact-us", LastModified: "2023-12-24", ChangeFrequency: models.ChangeYearly, Priority: models.Float(0.3)},
	}

	out, err := Serialize(pages, base)
	require.NoError(t, err)

	d, err := Parse(strings.NewReader(out), base)
	require.NoError(t, err)

	type tuple struct {
		path, lastmod string
		freq          models.ChangeFrequency
		priority      string
	}
	var want, got []tuple
	for _, p := range pages {
		want = append(want, tuple{p.PageURL, p.LastModified, p.ChangeFrequency, FormatPriority(*p.Priority)})
	}
	for e := range d.Entries() {
		require.NotNil(t, e.Priority)
		got = append(got, tuple{e.Path, e.LastModified, e.ChangeFrequency, FormatPriority(*e.Priority)})
	}
	assert.ElementsMatch(t, want, got)
}
