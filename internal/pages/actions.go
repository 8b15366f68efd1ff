package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/seo-companion/internal/common"
	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/registry"
	"github.com/dtnitsch/seo-companion/pkg/sitemap"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
	"github.com/urfave/cli/v2"
)

// ListAction prints the registry as a table, or as yaml/json with optional field filtering.
func ListAction(c *cli.Context) error {
	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	pages, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to list pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}

	format := c.String("format")
	if format != "table" {
		out := make([]map[string]any, 0, len(pages))
		for _, p := range pages {
			out = append(out, common.FilterFields(p, c.String("fields")))
		}
		if err := common.Write(c.App.Writer, format, out); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
		}
		return nil
	}

	if len(pages) == 0 {
		fmt.Fprintln(c.App.Writer, "No pages found")
		fmt.Fprintln(c.App.Writer, "\nTip: Use 'seo-companion discover' or 'seo-companion import-urls' to add pages")
		return nil
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%-36s %-30s %-22s %-10s %-8s %-10s\n", "ID", "Path", "Name", "Freq", "Priority", "Modified")
	fmt.Fprintln(w, strings.Repeat("-", 121))
	for _, p := range pages {
		priority := "-"
		if p.Priority != nil {
			priority = sitemap.FormatPriority(*p.Priority)
		}
		fmt.Fprintf(w, "%-36s %-30s %-22s %-10s %-8s %-10s\n",
			p.ID, clip(p.PageURL, 30), clip(p.PageName, 22), p.ChangeFrequency, priority, p.LastModified)
	}
	fmt.Fprintf(w, "\nTotal: %d pages\n", len(pages))
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// AddAction adds a blank record for a path.
func AddAction(c *cli.Context) error {
	path := "/"
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	path, err = normalizePath(env, path)
	if err != nil {
		return err
	}

	pages, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to list pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	rec := registry.NewManualRecord(path, models.Today(time.Now()))
	merged := registry.Merge(pages, []models.PageRecord{rec})
	if len(merged.Added) == 0 {
		return cli.Exit(fmt.Sprintf("Error: %v: %s", models.ErrDuplicatePath, path), common.ExitUsage)
	}
	if err := env.DB.ReplacePages(merged.Pages); err != nil {
		env.Logger.Error("failed to save pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	fmt.Fprintln(c.App.Writer, rec.ID)
	return nil
}

// EditAction changes the fields given as flags and refreshes lastModified.
func EditAction(c *cli.Context) error {
	id := c.String("id")
	if id == "" || c.NArg() != 0 {
		return cli.Exit("Usage: seo-companion pages edit --id <id> [--title ...] [--priority ...]", common.ExitUsage)
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	pages, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to list pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}

	var rec *models.PageRecord
	for i := range pages {
		if pages[i].ID == id {
			rec = &pages[i]
			break
		}
	}
	if rec == nil {
		return cli.Exit(fmt.Sprintf("Error: %v: %s", models.ErrPageNotFound, id), common.ExitUsage)
	}
	edited := *rec

	if c.IsSet("url") {
		edited.PageURL, err = normalizePath(env, c.String("url"))
		if err != nil {
			return err
		}
	}
	if c.IsSet("name") {
		edited.PageName = c.String("name")
	}
	if c.IsSet("title") {
		edited.Title = c.String("title")
	}
	if c.IsSet("meta-name") {
		edited.MetaName = c.String("meta-name")
	}
	if c.IsSet("description") {
		edited.MetaDescription = c.String("description")
	}
	if c.IsSet("changefreq") {
		freq, err := models.ParseChangeFrequency(c.String("changefreq"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
		}
		edited.ChangeFrequency = freq
	}
	if c.IsSet("priority") {
		p := c.Float64("priority")
		if p < 0 || p > 1 {
			return cli.Exit(fmt.Sprintf("Error: priority must be between 0.0 and 1.0, got %v", p), common.ExitUsage)
		}
		edited.Priority = models.Float(p)
	}

	updated, err := registry.Update(pages, edited, models.Today(time.Now()))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}
	if err := env.DB.ReplacePages(updated); err != nil {
		env.Logger.Error("failed to save pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	env.Logger.Info("page updated", "id", id, "page_url", edited.PageURL)
	return nil
}

func DeleteAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("Usage: seo-companion pages delete <id> [<id>...]", common.ExitUsage)
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	pages, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to list pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	for _, id := range c.Args().Slice() {
		var ok bool
		pages, ok = registry.Delete(pages, id)
		if !ok {
			return cli.Exit(fmt.Sprintf("Error: %v: %s", models.ErrPageNotFound, id), common.ExitUsage)
		}
	}
	if err := env.DB.ReplacePages(pages); err != nil {
		env.Logger.Error("failed to save pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d page(s)\n", c.NArg())
	return nil
}

// ClearAction removes every page. It requires --yes.
func ClearAction(c *cli.Context) error {
	if !c.Bool("yes") {
		return cli.Exit("This deletes every SEO record and cannot be undone. Re-run with --yes to confirm.", common.ExitUsage)
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	n, err := env.DB.ClearPages()
	if err != nil {
		env.Logger.Error("failed to clear pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	if n == 0 {
		fmt.Fprintln(c.App.Writer, "No records to clear.")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Cleared %d SEO record(s)\n", n)
	return nil
}

// normalizePath turns a path or same-site URL into a registry path. Without a stored site,
// only paths are accepted.
func normalizePath(env *common.Env, raw string) (string, error) {
	base, err := env.DB.GetSiteBaseURL()
	if err != nil && !errors.Is(err, models.ErrBaseURLMissing) {
		env.Logger.Error("failed to read site", "error", err)
		return "", cli.Exit("", common.ExitInfra)
	}
	if base == "" {
		base = "http://localhost"
	}
	norm, err := urlnorm.Normalize(raw, base)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}
	return norm.Path, nil
}
