// Package common holds setup shared by the CLI actions.
package common

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/caching"
	"github.com/dtnitsch/seo-companion/pkg/db"
	"github.com/dtnitsch/seo-companion/pkg/fetcher"
	"github.com/dtnitsch/seo-companion/pkg/recommend"
	"github.com/urfave/cli/v2"
)

// Exit codes: usage errors exit 1, infrastructure failures exit 2.
const (
	ExitUsage = 1
	ExitInfra = 2
)

// Env is what an action needs: settings, a logger and the open registry.
type Env struct {
	Config *models.Config
	Logger *slog.Logger
	DB     *db.DB
}

// Load reads configuration, applies global flags and opens the database.
// Callers must Close the returned Env.
func Load(c *cli.Context) (*Env, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error: %v", err), ExitUsage)
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}

	logger, err := NewLogger(c, cfg)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error: %v", err), ExitUsage)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		return nil, cli.Exit("", ExitInfra)
	}

	return &Env{Config: cfg, Logger: logger, DB: database}, nil
}

// NewLogger writes JSON logs to the app's error writer. --quiet limits output to errors.
func NewLogger(c *cli.Context, cfg *models.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})), nil
}

func (e *Env) Close() {
	if err := e.DB.Close(); err != nil {
		e.Logger.Warn("failed to close database", "error", err)
	}
}

// BaseURL returns the stored site base URL, or a usage error telling the user how to set it.
func (e *Env) BaseURL() (string, error) {
	base, err := e.DB.GetSiteBaseURL()
	if errors.Is(err, models.ErrBaseURLMissing) {
		return "", cli.Exit("Error: website URL is not set. Run: seo-companion site set https://www.example.com", ExitUsage)
	}
	if err != nil {
		e.Logger.Error("failed to read site", "error", err)
		return "", cli.Exit("", ExitInfra)
	}
	return base, nil
}

// Synthesizer uses the configured recommendation table, or the built-in one.
func (e *Env) Synthesizer() (*recommend.Synthesizer, error) {
	var (
		table recommend.Table
		err   error
	)
	if e.Config.RecommendationTable != "" {
		table, err = recommend.LoadTable(e.Config.RecommendationTable)
	} else {
		table, err = recommend.DefaultTable()
	}
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Error: %v", err), ExitUsage)
	}
	return recommend.New(table), nil
}

// Fetcher builds an HTTP fetcher from config, with a response cache when cache_dir is set.
func (e *Env) Fetcher() (*fetcher.Fetcher, error) {
	opts := fetcher.Options{
		UserAgent:    e.Config.UserAgent,
		Timeout:      e.Config.HTTPTimeout,
		RateInterval: e.Config.RateInterval,
		Logger:       e.Logger,
	}
	if e.Config.CacheDir != "" {
		ttl := e.Config.CacheTTL
		if ttl <= 0 {
			ttl = models.DefaultCacheTTL
		}
		cache, err := caching.NewCache(e.Config.CacheDir, ttl)
		if err != nil {
			e.Logger.Error("failed to initialize cache", "error", err, "dir", e.Config.CacheDir)
			return nil, cli.Exit("", ExitInfra)
		}
		opts.Cache = cache
	}
	return fetcher.NewFetcher(opts), nil
}
