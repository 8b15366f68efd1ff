// Package discovery enumerates a site's pages from its sitemap, falling back to homepage links.
package discovery

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/recommend"
	"github.com/dtnitsch/seo-companion/pkg/scraper"
	"github.com/dtnitsch/seo-companion/pkg/sitemap"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
	"github.com/google/uuid"
	"github.com/temoto/robotstxt"
)

// Source names where pages came from.
type Source string

const (
	SourceSitemap  Source = "sitemap"
	SourceHomepage Source = "homepage"
)

// Outcome is the terminal state of a discovery run.
type Outcome string

const (
	Found     Outcome = "found"
	Exhausted Outcome = "exhausted"
)

// Fetcher returns the body of a URL or an error for transport failures and non-2xx responses.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Attempt records one fetch. Err is nil on success, otherwise it wraps ErrSitemapUnavailable,
// ErrHomepageUnavailable or ErrNoPagesDiscovered.
type Attempt struct {
	Source Source `json:"source"`
	URL    string `json:"url"`
	Index  bool   `json:"index,omitempty"`
	Found  int    `json:"found"`
	Err    error  `json:"-"`
}

// Result is the outcome of Discover. Source and Pages are set only when Outcome is Found.
type Result struct {
	Outcome  Outcome
	Source   Source
	Pages    []models.PageRecord
	Attempts []Attempt
}

// Options tunes a Discoverer.
type Options struct {
	// MaxSitemaps bounds how many sitemap documents one run fetches, index children included.
	MaxSitemaps int
	// FollowRobots adds the Sitemap: lines of robots.txt to the sitemap queue.
	FollowRobots bool
	Logger       *slog.Logger
	Now          func() time.Time
	NewID        func() string
}

type Discoverer struct {
	fetcher Fetcher
	synth   *recommend.Synthesizer
	opts    Options
}

func New(f Fetcher, synth *recommend.Synthesizer, opts Options) *Discoverer {
	if opts.MaxSitemaps < 1 {
		opts.MaxSitemaps = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Discoverer{fetcher: f, synth: synth, opts: opts}
}

// run carries per-call state.
type run struct {
	base     string
	baseURL  *url.URL
	siteName string
	today    string
	attempts []Attempt
}

// Discover tries the sitemap, then the homepage. Only a missing or invalid base URL is
// returned as an error; fetch and parse failures are recorded in Result.Attempts.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) (Result, error) {
	base, err := urlnorm.CleanBaseURL(baseURL)
	if err != nil {
		return Result{}, err
	}
	u, err := url.Parse(base)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}

	r := &run{
		base:     base,
		baseURL:  u,
		siteName: urlnorm.SiteName(u.Hostname()),
		today:    models.Today(d.opts.Now()),
	}
	logger := d.opts.Logger.With("base_url", base)

	if pages := d.trySitemaps(ctx, r, logger); len(pages) > 0 {
		return d.finish(logger, Result{Outcome: Found, Source: SourceSitemap, Pages: pages, Attempts: r.attempts}), nil
	}
	if pages := d.tryHomepage(ctx, r, logger); len(pages) > 0 {
		return d.finish(logger, Result{Outcome: Found, Source: SourceHomepage, Pages: pages, Attempts: r.attempts}), nil
	}
	return d.finish(logger, Result{Outcome: Exhausted, Attempts: r.attempts}), nil
}

func (d *Discoverer) finish(logger *slog.Logger, res Result) Result {
	logger.Info("discovery finished",
		"outcome", res.Outcome,
		"source", res.Source,
		"pages", len(res.Pages),
		"attempts", len(res.Attempts),
	)
	return res
}

func (d *Discoverer) record(logger *slog.Logger, r *run, a Attempt) {
	r.attempts = append(r.attempts, a)
	if a.Err != nil {
		logger.Warn("discovery attempt failed", "source", a.Source, "url", a.URL, "error", a.Err)
		return
	}
	logger.Info("discovery attempt", "source", a.Source, "url", a.URL, "index", a.Index, "found", a.Found)
}

func (d *Discoverer) trySitemaps(ctx context.Context, r *run, logger *slog.Logger) []models.PageRecord {
	queue := []string{r.base + "/sitemap.xml"}
	queued := map[string]bool{queue[0]: true}
	enqueue := func(loc string) bool {
		u, err := url.Parse(loc)
		if err != nil || !urlnorm.SameHost(u, r.baseURL) || queued[loc] {
			return false
		}
		queued[loc] = true
		queue = append(queue, loc)
		return true
	}

	var pages []models.PageRecord
	seen := make(map[string]bool)
	robotsChecked := !d.opts.FollowRobots
	fetched := 0

	for {
		if len(queue) == 0 {
			if robotsChecked {
				break
			}
			robotsChecked = true
			for _, loc := range d.robotsSitemaps(ctx, r, logger) {
				enqueue(loc)
			}
			continue
		}
		if fetched >= d.opts.MaxSitemaps {
			logger.Info("sitemap limit reached", "max_sitemaps", d.opts.MaxSitemaps, "skipped", len(queue))
			break
		}

		loc := queue[0]
		queue = queue[1:]
		fetched++

		attempt := Attempt{Source: SourceSitemap, URL: loc}
		body, err := d.fetcher.Get(ctx, loc)
		if err != nil {
			attempt.Err = fmt.Errorf("%w: %w", models.ErrSitemapUnavailable, err)
			d.record(logger, r, attempt)
			continue
		}
		doc, err := sitemap.Parse(bytes.NewReader(body), r.base)
		if err != nil {
			attempt.Err = err
			d.record(logger, r, attempt)
			continue
		}

		if doc.IsIndex() {
			attempt.Index = true
			for _, child := range doc.Sitemaps() {
				if enqueue(child) {
					attempt.Found++
				}
			}
			d.record(logger, r, attempt)
			continue
		}

		for e := range doc.Entries() {
			if !e.SameOrigin || seen[e.Path] {
				continue
			}
			seen[e.Path] = true
			pages = append(pages, d.fromSitemapEntry(r, e))
			attempt.Found++
		}
		if attempt.Found == 0 {
			attempt.Err = fmt.Errorf("%w: %s has no usable entries", models.ErrNoPagesDiscovered, loc)
		}
		d.record(logger, r, attempt)
	}
	return pages
}

// robotsSitemaps returns the Sitemap: directives of robots.txt. A missing or unreadable
// robots.txt yields nothing.
func (d *Discoverer) robotsSitemaps(ctx context.Context, r *run, logger *slog.Logger) []string {
	robotsURL := r.base + "/robots.txt"
	body, err := d.fetcher.Get(ctx, robotsURL)
	if err != nil {
		logger.Debug("robots.txt unavailable", "url", robotsURL, "error", err)
		return nil
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		logger.Debug("robots.txt unparseable", "url", robotsURL, "error", err)
		return nil
	}
	return robots.Sitemaps
}

func (d *Discoverer) tryHomepage(ctx context.Context, r *run, logger *slog.Logger) []models.PageRecord {
	homeURL := r.base + "/"
	attempt := Attempt{Source: SourceHomepage, URL: homeURL}

	body, err := d.fetcher.Get(ctx, homeURL)
	if err != nil {
		attempt.Err = fmt.Errorf("%w: %w", models.ErrHomepageUnavailable, err)
		d.record(logger, r, attempt)
		return nil
	}
	links, err := scraper.Scrape(bytes.NewReader(body), r.base)
	if err != nil {
		attempt.Err = err
		d.record(logger, r, attempt)
		return nil
	}

	var pages []models.PageRecord
	for link := range links {
		pages = append(pages, d.fromLink(r, link))
	}
	attempt.Found = len(pages)
	if len(pages) == 0 {
		attempt.Err = fmt.Errorf("%w: no same-site links on %s", models.ErrNoPagesDiscovered, homeURL)
	}
	d.record(logger, r, attempt)
	return pages
}

func (d *Discoverer) fromSitemapEntry(r *run, e sitemap.Entry) models.PageRecord {
	rec := d.synth.Recommend(e.Path, urlnorm.PageNameFromPath(e.Path), r.siteName)
	p := d.newRecord(r, e.Path, rec)
	if e.LastModified != "" {
		p.LastModified = e.LastModified
	}
	if e.ChangeFrequency != "" {
		p.ChangeFrequency = e.ChangeFrequency
	}
	if e.Priority != nil {
		p.Priority = models.Float(*e.Priority)
	}
	return p
}

func (d *Discoverer) fromLink(r *run, link scraper.Link) models.PageRecord {
	rec := d.synth.Recommend(link.Path, link.LinkText, r.siteName)
	p := d.newRecord(r, link.Path, rec)
	if link.Path == "/" {
		p.Priority = models.Float(1.0)
	}
	return p
}

func (d *Discoverer) newRecord(r *run, path string, rec recommend.Recommendation) models.PageRecord {
	return models.PageRecord{
		ID:              d.opts.NewID(),
		PageName:        rec.PageName,
		PageURL:         path,
		Title:           rec.Title,
		MetaName:        "description",
		MetaDescription: rec.MetaDescription,
		LastModified:    r.today,
		ChangeFrequency: rec.ChangeFrequency,
		Priority:        models.Float(rec.Priority),
	}
}
