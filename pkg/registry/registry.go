// Package registry merges and edits the page registry. Functions never modify their input slices.
package registry

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/recommend"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
	"github.com/google/uuid"
)

// MergeResult is the registry after a merge and the records it gained.
type MergeResult struct {
	Pages []models.PageRecord
	Added []models.PageRecord
}

// Merge prepends the candidates whose path is not yet in existing. Candidates sharing a path
// keep the first. Existing records are returned unchanged and in order.
func Merge(existing, candidates []models.PageRecord) MergeResult {
	known := make(map[string]bool, len(existing)+len(candidates))
	for _, p := range existing {
		known[p.PageURL] = true
	}

	var added []models.PageRecord
	for _, c := range candidates {
		if known[c.PageURL] {
			continue
		}
		known[c.PageURL] = true
		added = append(added, c)
	}

	pages := make([]models.PageRecord, 0, len(added)+len(existing))
	pages = append(pages, added...)
	pages = append(pages, existing...)
	return MergeResult{Pages: pages, Added: added}
}

// Update replaces the record with rec.ID and stamps it with today.
func Update(pages []models.PageRecord, rec models.PageRecord, today string) ([]models.PageRecord, error) {
	idx := -1
	for i, p := range pages {
		switch {
		case p.ID == rec.ID:
			idx = i
		case p.PageURL == rec.PageURL:
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicatePath, rec.PageURL)
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrPageNotFound, rec.ID)
	}

	out := make([]models.PageRecord, len(pages))
	copy(out, pages)
	rec.LastModified = today
	out[idx] = rec
	return out, nil
}

// Delete removes the record with id and reports whether it was present.
func Delete(pages []models.PageRecord, id string) ([]models.PageRecord, bool) {
	out := make([]models.PageRecord, 0, len(pages))
	found := false
	for _, p := range pages {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}

// NewManualRecord returns a blank record for path, ready to be edited.
func NewManualRecord(path, today string) models.PageRecord {
	if path == "" {
		path = "/"
	}
	return models.PageRecord{
		ID:              uuid.NewString(),
		PageURL:         path,
		LastModified:    today,
		ChangeFrequency: recommend.GenericChangeFrequency,
		Priority:        models.Float(recommend.GenericPriority),
	}
}

// ImportResult holds the records built from manual input and the lines that could not be used.
type ImportResult struct {
	Pages   []models.PageRecord
	Skipped []string
}

// ImportLines builds synthesized records from paths or URLs, one per line. Blank lines are
// ignored. Full URLs contribute only their path. Lines repeating an earlier path are skipped.
func ImportLines(lines []string, baseURL string, synth *recommend.Synthesizer, today string) (ImportResult, error) {
	base, err := urlnorm.CleanBaseURL(baseURL)
	if err != nil {
		return ImportResult{}, err
	}
	siteName, err := urlnorm.SiteNameFromURL(base)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	seen := make(map[string]bool)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		norm, err := urlnorm.Normalize(line, base)
		if err != nil || seen[norm.Path] {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		seen[norm.Path] = true

		rec := synth.Recommend(norm.Path, urlnorm.PageNameFromPath(norm.Path), siteName)
		res.Pages = append(res.Pages, models.PageRecord{
			ID:              uuid.NewString(),
			PageName:        rec.PageName,
			PageURL:         norm.Path,
			Title:           rec.Title,
			MetaName:        "description",
			MetaDescription: rec.MetaDescription,
			LastModified:    today,
			ChangeFrequency: rec.ChangeFrequency,
			Priority:        models.Float(rec.Priority),
		})
	}
	return res, nil
}
