// Package audit compares registry metadata with what the live pages serve.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/seo-companion/models"
	"github.com/go-shiori/go-readability"
)

// Fetcher returns the body of a URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Live is the metadata a page currently serves.
type Live struct {
	Title           string   `json:"title" yaml:"title"`
	MetaDescription string   `json:"metaDescription" yaml:"metaDescription"`
	Excerpt         string   `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Words           int      `json:"words" yaml:"words"`
	Keywords        []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Finding is the audit of one registry record.
type Finding struct {
	ID                  string `json:"id" yaml:"id"`
	PageURL             string `json:"pageUrl" yaml:"pageUrl"`
	URL                 string `json:"url" yaml:"url"`
	Live                Live   `json:"live" yaml:"live"`
	TitleMismatch       bool   `json:"titleMismatch" yaml:"titleMismatch"`
	DescriptionMismatch bool   `json:"descriptionMismatch" yaml:"descriptionMismatch"`
	Error               string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the page was fetched and matches its record.
func (f Finding) OK() bool {
	return f.Error == "" && !f.TitleMismatch && !f.DescriptionMismatch
}

// Extract reads the <title> and meta description of an HTML page, plus a readability excerpt
// and keyword summary of its main content. A page without readable content still returns its
// head metadata.
func Extract(body []byte, pageURL *url.URL) (Live, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Live{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	live := Live{Title: normalizeText(doc.Find("title").First().Text())}
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(s.AttrOr("name", ""), "description") {
			live.MetaDescription = normalizeText(s.AttrOr("content", ""))
			return false
		}
		return true
	})

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), pageURL)
	if err != nil {
		return live, nil
	}
	live.Excerpt = normalizeText(article.Excerpt)
	live.Words = len(strings.Fields(article.TextContent))
	live.Keywords = TopKeywords(article.TextContent, 5)
	return live, nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Options configures an Auditor.
type Options struct {
	Workers int
	Logger  *slog.Logger
}

type Auditor struct {
	fetcher Fetcher
	workers int
	logger  *slog.Logger
}

func New(f Fetcher, opts Options) *Auditor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Auditor{fetcher: f, workers: opts.Workers, logger: opts.Logger}
}

type job struct {
	index int
	page  models.PageRecord
}

// Audit fetches every page under baseURL and compares it with its record.
// Findings are returned in the order of pages.
func (a *Auditor) Audit(ctx context.Context, baseURL string, pages []models.PageRecord) []Finding {
	base := strings.TrimRight(baseURL, "/")
	findings := make([]Finding, len(pages))

	var wg sync.WaitGroup
	jobs := make(chan job, len(pages))
	for w := 1; w <= a.workers; w++ {
		wg.Add(1)
		go a.worker(ctx, w, base, &wg, jobs, findings)
	}
	for i, p := range pages {
		jobs <- job{index: i, page: p}
	}
	close(jobs)
	wg.Wait()

	return findings
}

// worker writes each result into its own slot of findings.
func (a *Auditor) worker(ctx context.Context, id int, base string, wg *sync.WaitGroup, jobs <-chan job, findings []Finding) {
	defer wg.Done()
	for j := range jobs {
		findings[j.index] = a.check(ctx, id, base, j.page)
	}
}

func (a *Auditor) check(ctx context.Context, workerID int, base string, p models.PageRecord) Finding {
	f := Finding{ID: p.ID, PageURL: p.PageURL, URL: base + p.PageURL}

	pageURL, err := url.Parse(f.URL)
	if err != nil {
		f.Error = fmt.Sprintf("invalid url: %v", err)
		return f
	}
	body, err := a.fetcher.Get(ctx, f.URL)
	if err != nil {
		a.logger.Warn("audit fetch failed", "worker_id", workerID, "url", f.URL, "error", err)
		f.Error = err.Error()
		return f
	}
	live, err := Extract(body, pageURL)
	if err != nil {
		f.Error = err.Error()
		return f
	}

	f.Live = live
	f.TitleMismatch = differs(p.Title, live.Title)
	f.DescriptionMismatch = differs(p.MetaDescription, live.MetaDescription)
	a.logger.Debug("audited page", "worker_id", workerID, "url", f.URL, "ok", f.OK())
	return f
}

// differs compares a stored value with a live one. A blank stored value has nothing to check.
func differs(stored, live string) bool {
	stored = normalizeText(stored)
	if stored == "" {
		return false
	}
	return !strings.EqualFold(stored, live)
}
