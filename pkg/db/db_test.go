package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/seo-companion/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestSiteBaseURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetSiteBaseURL(); !errors.Is(err, models.ErrBaseURLMissing) {
		t.Fatalf("GetSiteBaseURL() on empty db error = %v, want ErrBaseURLMissing", err)
	}

	for _, want := range []string{"https://example.com", "https://www.montreal4rent.com"} {
		if err := db.SetSiteBaseURL(want); err != nil {
			t.Fatalf("SetSiteBaseURL(%q) error = %v", want, err)
		}
		got, err := db.GetSiteBaseURL()
		if err != nil {
			t.Fatalf("GetSiteBaseURL() error = %v", err)
		}
		if got != want {
			t.Errorf("GetSiteBaseURL() = %q, want %q", got, want)
		}
	}
}

func TestReplaceAndListPages(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pages := []models.PageRecord{
		{
			ID: "b", PageName: "About", PageURL: "/about", Title: "About | Acme",
			MetaName: "description", MetaDescription: "About us",
			LastModified: "2025-06-01", ChangeFrequency: models.ChangeMonthly, Priority: models.Float(0.5),
		},
		{ID: "a", PageName: "Home", PageURL: "/"},
	}
	if err := db.ReplacePages(pages); err != nil {
		t.Fatalf("ReplacePages() error = %v", err)
	}

	got, err := db.ListPages()
	if err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListPages() returned %d pages, want 2", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("ListPages() order = %s,%s; want b,a", got[0].ID, got[1].ID)
	}
	if got[0].Priority == nil || *got[0].Priority != 0.5 {
		t.Errorf("priority = %v, want 0.5", got[0].Priority)
	}
	if got[0].ChangeFrequency != models.ChangeMonthly || got[0].LastModified != "2025-06-01" {
		t.Errorf("optional fields not round-tripped: %+v", got[0])
	}
	if got[1].Priority != nil || got[1].LastModified != "" || got[1].ChangeFrequency != "" {
		t.Errorf("absent fields should stay absent: %+v", got[1])
	}

	if err := db.ReplacePages(pages[1:]); err != nil {
		t.Fatalf("ReplacePages() second call error = %v", err)
	}
	got, _ = db.ListPages()
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("ListPages() after replace = %+v", got)
	}
}

func TestReplacePagesRejectsDuplicatePaths(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.ReplacePages([]models.PageRecord{{ID: "keep", PageURL: "/"}}); err != nil {
		t.Fatalf("ReplacePages() error = %v", err)
	}

	dup := []models.PageRecord{{ID: "1", PageURL: "/x"}, {ID: "2", PageURL: "/x"}}
	if err := db.ReplacePages(dup); err == nil {
		t.Fatal("ReplacePages() with duplicate paths should fail")
	}

	got, _ := db.ListPages()
	if len(got) != 1 || got[0].ID != "keep" {
		t.Errorf("failed replace must roll back, got %+v", got)
	}
}

func TestClearPages(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_ = db.ReplacePages([]models.PageRecord{{ID: "1", PageURL: "/"}, {ID: "2", PageURL: "/a"}})
	n, err := db.ClearPages()
	if err != nil {
		t.Fatalf("ClearPages() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ClearPages() = %d, want 2", n)
	}
	if got, _ := db.ListPages(); len(got) != 0 {
		t.Errorf("pages left after clear: %d", len(got))
	}
}

func TestRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := Run{
		BaseURL: "https://example.com", Outcome: "exhausted",
		Attempts: []RunAttempt{
			{Source: "sitemap", URL: "https://example.com/sitemap.xml", Error: "sitemap unavailable: status code 404"},
			{Source: "homepage", URL: "https://example.com/", Error: "homepage unavailable"},
		},
	}
	second := Run{
		BaseURL: "https://example.com", Outcome: "found", Source: "sitemap", PagesFound: 3, PagesAdded: 2,
		Attempts: []RunAttempt{{Source: "sitemap", URL: "https://example.com/sitemap.xml", Found: 3}},
	}

	id1, err := db.InsertRun(first)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	id2, err := db.InsertRun(second)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != id2 || runs[1].RunID != id1 {
		t.Fatalf("ListRuns() = %+v, want newest first", runs)
	}
	if runs[0].PagesAdded != 2 || runs[0].Source != "sitemap" {
		t.Errorf("run fields = %+v", runs[0])
	}
	if runs[1].Source != "" {
		t.Errorf("exhausted run source = %q, want empty", runs[1].Source)
	}

	attempts, err := db.GetRunAttempts(id1)
	if err != nil {
		t.Fatalf("GetRunAttempts() error = %v", err)
	}
	if len(attempts) != 2 || attempts[0].Source != "sitemap" || attempts[1].Error != "homepage unavailable" {
		t.Errorf("GetRunAttempts() = %+v", attempts)
	}

	if runs, _ := db.ListRuns(1); len(runs) != 1 {
		t.Errorf("ListRuns(1) returned %d runs", len(runs))
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.SetSiteBaseURL("https://example.com"); err != nil {
		t.Fatalf("SetSiteBaseURL() error = %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if got, err := db.GetSiteBaseURL(); err != nil || got != "https://example.com" {
		t.Errorf("GetSiteBaseURL() after reopen = %q, %v", got, err)
	}
}

func TestOpenCreatesDirectoryAndStampsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "registry.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("user_version = %d, want %d", version, schemaVersion)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	if db, err := Open(path); err == nil {
		db.Close()
		t.Fatal("Open() error = nil, want schema version error")
	}
}
