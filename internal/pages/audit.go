package pages

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/seo-companion/internal/common"
	"github.com/dtnitsch/seo-companion/pkg/audit"
	"github.com/urfave/cli/v2"
)

// AuditAction fetches every registry page and reports titles and descriptions that differ
// from what the live page serves.
func AuditAction(c *cli.Context) error {
	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	base, err := env.BaseURL()
	if err != nil {
		return err
	}
	pages, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to list pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	f, err := env.Fetcher()
	if err != nil {
		return err
	}

	findings := audit.New(f, audit.Options{Workers: c.Int("workers"), Logger: env.Logger}).
		Audit(c.Context, base, pages)

	format := c.String("format")
	if format != "table" {
		if err := common.Write(c.App.Writer, format, findings); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
		}
		return nil
	}

	w := c.App.Writer
	issues := 0
	fmt.Fprintf(w, "%-30s %-8s %-6s %-6s %s\n", "Path", "Status", "Title", "Desc", "Live title")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, fd := range findings {
		status, title, desc := "ok", "ok", "ok"
		if fd.Error != "" {
			status, title, desc = "error", "-", "-"
		}
		if fd.TitleMismatch {
			title = "diff"
		}
		if fd.DescriptionMismatch {
			desc = "diff"
		}
		if !fd.OK() {
			issues++
		}
		fmt.Fprintf(w, "%-30s %-8s %-6s %-6s %s\n", clip(fd.PageURL, 30), status, title, desc, clip(fd.Live.Title, 40))
	}
	fmt.Fprintf(w, "\n%d of %d pages need attention\n", issues, len(findings))
	return nil
}
