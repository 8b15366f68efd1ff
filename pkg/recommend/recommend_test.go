package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/seo-companion/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSynth(t *testing.T) *Synthesizer {
	t.Helper()
	table, err := DefaultTable()
	require.NoError(t, err)
	return New(table)
}

func TestRecommendTableHit(t *testing.T) {
	s := defaultSynth(t)

	tests := []struct {
		path     string
		name     string
		title    string
		freq     models.ChangeFrequency
		priority float64
	}{
		{"/", "Home", "Acme - Find Your Perfect Rental in Montreal", models.ChangeDaily, 1.0},
		{"/apartments", "Apartments", "Apartments for Rent in Montreal | Acme", models.ChangeDaily, 0.9},
		{"/Fully-Furnished", "Fully Furnished", "Fully Furnished Apartments Montreal | Acme", models.ChangeDaily, 0.9},
		{"/rooms-for-rent", "Rooms for Rent", "Rooms for Rent in Montreal | Acme", models.ChangeDaily, 0.8},
		{"/property-owners", "Property Owners", "List Your Property | Acme", models.ChangeMonthly, 0.7},
		{"/contact-us", "Contact Us", "Contact Us | Acme", models.ChangeMonthly, 0.6},
		{"/about", "About Us", "About Us | Acme", models.ChangeMonthly, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := s.Recommend(tt.path, "ignored", "Acme")
			assert.Equal(t, tt.name, got.PageName)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.freq, got.ChangeFrequency)
			assert.InDelta(t, tt.priority, got.Priority, 1e-9)
			assert.NotContains(t, got.MetaDescription, "{site}")
		})
	}
}

func TestRecommendSiteInDescription(t *testing.T) {
	got := defaultSynth(t).Recommend("/contact-us", "Contact", "Acme")
	assert.Equal(t, "Get in touch with Acme. We're here to help you find the perfect rental or list your property in Montreal.", got.MetaDescription)
}

func TestRecommendGeneric(t *testing.T) {
	got := defaultSynth(t).Recommend("/blog", "Blog", "Acme")
	assert.Equal(t, Recommendation{
		PageName:        "Blog",
		Title:           "Blog | Acme",
		MetaDescription: "Explore blog on Acme. Find quality rental properties in Montreal.",
		ChangeFrequency: models.ChangeMonthly,
		Priority:        0.5,
	}, got)
}

func TestRecommendGenericWithoutSuffix(t *testing.T) {
	got := New(Table{}).Recommend("/Team", "Our Team", "Acme")
	assert.Equal(t, "Explore our team on Acme.", got.MetaDescription)
	assert.Equal(t, "Our Team | Acme", got.Title)
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	data := `generic_suffix: "Book today."
pages:
  /Services:
    page_name: Services
    title: "{page} at {site}"
    description: "What {site} offers."
    change_frequency: Weekly
    priority: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	s := New(table)

	got := s.Recommend("/services", "x", "Acme")
	assert.Equal(t, "Services at Acme", got.Title)
	assert.Equal(t, "What Acme offers.", got.MetaDescription)
	assert.Equal(t, models.ChangeWeekly, got.ChangeFrequency)

	generic := s.Recommend("/faq", "Faq", "Acme")
	assert.Equal(t, "Explore faq on Acme. Book today.", generic.MetaDescription)
}

func TestParseTableRejectsBadEntries(t *testing.T) {
	tests := map[string]string{
		"bad frequency": "pages:\n  /x:\n    change_frequency: fortnightly\n    priority: 0.5\n",
		"bad priority":  "pages:\n  /x:\n    change_frequency: daily\n    priority: 1.5\n",
		"bad yaml":      "pages: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTable([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
