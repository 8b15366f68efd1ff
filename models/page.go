// Package models defines the page registry records, configuration and error kinds.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for lastModified values.
const DateLayout = "2006-01-02"

// ChangeFrequency is the sitemap protocol <changefreq> value.
type ChangeFrequency string

const (
	ChangeAlways  ChangeFrequency = "always"
	ChangeHourly  ChangeFrequency = "hourly"
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
	ChangeYearly  ChangeFrequency = "yearly"
	ChangeNever   ChangeFrequency = "never"
)

var changeFrequencies = []ChangeFrequency{
	ChangeAlways, ChangeHourly, ChangeDaily, ChangeWeekly, ChangeMonthly, ChangeYearly, ChangeNever,
}

// ParseChangeFrequency validates s against the fixed set of frequencies.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseChangeFrequency(s string) (ChangeFrequency, error) {
	v := ChangeFrequency(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range changeFrequencies {
		if v == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown change frequency %q", s)
}

// PageRecord is one discovered or manually curated page.
type PageRecord struct {
	ID              string          `json:"id" yaml:"id"`
	PageName        string          `json:"pageName" yaml:"pageName"`
	PageURL         string          `json:"pageUrl" yaml:"pageUrl"`
	Title           string          `json:"title" yaml:"title"`
	MetaName        string          `json:"metaName" yaml:"metaName"`
	MetaDescription string          `json:"metaDescription" yaml:"metaDescription"`
	LastModified    string          `json:"lastModified,omitempty" yaml:"lastModified,omitempty"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency,omitempty" yaml:"changeFrequency,omitempty"`
	Priority        *float64        `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Today formats t as a lastModified date.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// Float returns a pointer to v, for optional priorities.
func Float(v float64) *float64 {
	return &v
}
