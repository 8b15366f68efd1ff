package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/seo-companion/models"
)

func TestWriteExport(t *testing.T) {
	var buf bytes.Buffer
	pages := []models.PageRecord{{
		ID: "1", PageName: "Home", PageURL: "/", Title: "Acme", MetaName: "description",
		MetaDescription: "Welcome", LastModified: "2025-06-01", ChangeFrequency: models.ChangeDaily,
		Priority: models.Float(1),
	}}
	if err := WriteExport(&buf, pages); err != nil {
		t.Fatalf("WriteExport() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"seoPages"`, `"pageUrl": "/"`, `"metaName": "description"`, `"changeFrequency": "daily"`, `"priority": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %s:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteExport(&buf, nil); err != nil {
		t.Fatalf("WriteExport(nil) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"seoPages": []`) {
		t.Errorf("empty export = %s", buf.String())
	}
}

func TestReadExport(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{
			name:  "full records",
			input: `{"seoPages":[{"id":"a","pageName":"Home","pageUrl":"/","title":"t","metaName":"description","metaDescription":"d","lastModified":"2024-01-01","changeFrequency":"daily","priority":1}]}`,
			want:  1,
		},
		{
			name:  "empty list",
			input: `{"seoPages":[]}`,
			want:  0,
		},
		{
			name:    "missing key",
			input:   `{"pages":[]}`,
			wantErr: ErrNoPages,
		},
		{
			name:    "duplicate path",
			input:   `{"seoPages":[{"id":"a","pageUrl":"/"},{"id":"b","pageUrl":"/"}]}`,
			wantErr: models.ErrDuplicatePath,
		},
		{
			name:    "duplicate id",
			input:   `{"seoPages":[{"id":"a","pageUrl":"/"},{"id":"a","pageUrl":"/about"}]}`,
			wantErr: models.ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := ReadExport(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadExport() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadExport() error = %v", err)
			}
			if len(pages) != tt.want {
				t.Errorf("ReadExport() returned %d pages, want %d", len(pages), tt.want)
			}
		})
	}
}

func TestReadExportFillsDefaults(t *testing.T) {
	pages, err := ReadExport(strings.NewReader(`{"seoPages":[{"pageUrl":"/a","changeFrequency":"Weekly"}]}`))
	if err != nil {
		t.Fatalf("ReadExport() error = %v", err)
	}
	if pages[0].ID == "" {
		t.Error("missing id should be generated")
	}
	if pages[0].ChangeFrequency != models.ChangeWeekly {
		t.Errorf("changeFrequency = %q, want weekly", pages[0].ChangeFrequency)
	}
	if pages[0].Priority != nil {
		t.Errorf("absent priority should stay nil")
	}
}

func TestReadExportRejectsBadInput(t *testing.T) {
	for _, input := range []string{`not json`, `{"seoPages":[{"pageUrl":"/a","changeFrequency":"sometimes"}]}`} {
		if _, err := ReadExport(strings.NewReader(input)); err == nil {
			t.Errorf("ReadExport(%q) should fail", input)
		}
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sitemap.xml")
	if err := SaveFile(path, []byte("<urlset/>")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<urlset/>" {
		t.Errorf("file content = %q, %v", data, err)
	}
}

func TestExportThenImport(t *testing.T) {
	pages := []models.PageRecord{
		{ID: "1", PageURL: "/", Priority: models.Float(0.8), ChangeFrequency: models.ChangeDaily},
		{ID: "2", PageURL: "/about", MetaName: "description"},
	}
	var buf bytes.Buffer
	if err := WriteExport(&buf, pages); err != nil {
		t.Fatal(err)
	}
	got, err := ReadExport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "1" || *got[0].Priority != 0.8 || got[1].MetaName != "description" {
		t.Errorf("round trip = %+v", got)
	}
}
