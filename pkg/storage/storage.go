// Package storage reads and writes registry files: JSON exports and generated sitemaps.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dtnitsch/seo-companion/models"
	"github.com/google/uuid"
)

// Export is the on-disk registry format.
type Export struct {
	SeoPages []models.PageRecord `json:"seoPages"`
}

// ErrNoPages means an import file has no seoPages key.
var ErrNoPages = errors.New("file has no seoPages")

func SaveFile(filePath string, content []byte) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// WriteExport writes pages as indented JSON.
func WriteExport(w io.Writer, pages []models.PageRecord) error {
	if pages == nil {
		pages = []models.PageRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export{SeoPages: pages}); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ReadExport decodes an export. Records without an id get one; change frequencies are validated
// and page paths must be unique.
func ReadExport(r io.Reader) ([]models.PageRecord, error) {
	var raw struct {
		SeoPages *[]models.PageRecord `json:"seoPages"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON file: %w", err)
	}
	if raw.SeoPages == nil {
		return nil, ErrNoPages
	}

	pages := *raw.SeoPages
	seen := make(map[string]bool, len(pages))
	seenIDs := make(map[string]bool, len(pages))
	for i := range pages {
		p := &pages[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.ChangeFrequency != "" {
			freq, err := models.ParseChangeFrequency(string(p.ChangeFrequency))
			if err != nil {
				return nil, fmt.Errorf("page %s: %w", p.PageURL, err)
			}
			p.ChangeFrequency = freq
		}
		if seen[p.PageURL] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicatePath, p.PageURL)
		}
		seen[p.PageURL] = true
		if seenIDs[p.ID] {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateID, p.ID)
		}
		seenIDs[p.ID] = true
	}
	return pages, nil
}
