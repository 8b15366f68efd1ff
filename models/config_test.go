package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "db_path: /tmp/site.db\nrate_interval: 250ms\nmax_sitemaps: 3\nfollow_robots: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEO_USER_AGENT", "test-agent")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DBPath != "/tmp/site.db" {
		t.Errorf("DBPath = %q, want /tmp/site.db", cfg.DBPath)
	}
	if cfg.RateInterval != 250*time.Millisecond {
		t.Errorf("RateInterval = %s, want 250ms", cfg.RateInterval)
	}
	if cfg.MaxSitemaps != 3 || !cfg.FollowRobots {
		t.Errorf("MaxSitemaps = %d, FollowRobots = %v", cfg.MaxSitemaps, cfg.FollowRobots)
	}
	if cfg.UserAgent != "test-agent" {
		t.Errorf("UserAgent = %q, want environment override", cfg.UserAgent)
	}
	if cfg.HTTPTimeout != DefaultConfig().HTTPTimeout {
		t.Errorf("HTTPTimeout = %s, want default", cfg.HTTPTimeout)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", filepath.Join(dir, "nope.yaml")},
		{"bad yaml", write("bad.yaml", "max_sitemaps: [")},
		{"zero max sitemaps", write("zero.yaml", "max_sitemaps: 0\n")},
		{"negative rate", write("rate.yaml", "rate_interval: -1s\n")},
		{"unknown level", write("level.yaml", "log_level: loud\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(tt.path); err == nil {
				t.Error("LoadConfig() error = nil, want error")
			}
		})
	}
}

func TestParseChangeFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    ChangeFrequency
		wantErr bool
	}{
		{"weekly", ChangeWeekly, false},
		{"  Monthly ", ChangeMonthly, false},
		{"NEVER", ChangeNever, false},
		{"fortnightly", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseChangeFrequency(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChangeFrequency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChangeFrequency(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
