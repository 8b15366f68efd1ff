package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/seo-companion/internal/db"
	"github.com/dtnitsch/seo-companion/internal/discover"
	"github.com/dtnitsch/seo-companion/internal/pages"
	"github.com/dtnitsch/seo-companion/internal/site"
	"github.com/dtnitsch/seo-companion/internal/transfer"
	"github.com/dtnitsch/seo-companion/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seo-companion",
		Usage: "discover a site's pages, curate their SEO metadata and generate sitemap.xml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config `FILE` (default seo-companion.yaml if present)"},
			&cli.StringFlag{Name: "db", Usage: "registry database `PATH`"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		},
		Commands: []*cli.Command{
			{
				Name:  "site",
				Usage: "manage the website base URL",
				Subcommands: []*cli.Command{
					{Name: "set", Usage: "set the website URL", ArgsUsage: "<url>", Action: site.SetAction},
					{Name: "show", Usage: "print the website URL", Action: site.ShowAction},
				},
			},
			{
				Name:      "discover",
				Usage:     "find pages from sitemap.xml or homepage links and add them to the registry",
				ArgsUsage: "[url]",
				Action:    discover.DiscoverAction,
			},
			{
				Name:  "import-urls",
				Usage: "add pages from paths or URLs, one per line (stdin by default)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read lines from `FILE`"},
				},
				Action: discover.ImportURLsAction,
			},
			{
				Name:  "pages",
				Usage: "list and edit registry pages",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "print all pages",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "format", Value: "table", Usage: "table, yaml or json"},
							&cli.StringFlag{Name: "fields", Usage: "comma-separated fields for yaml/json output"},
						},
						Action: pages.ListAction,
					},
					{Name: "add", Usage: "add a blank page", ArgsUsage: "[path]", Action: pages.AddAction},
					{
						Name:      "edit",
						Usage:     "change page fields",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "id", Usage: "page id (see pages list)"},
							&cli.StringFlag{Name: "url", Usage: "page path"},
							&cli.StringFlag{Name: "name", Usage: "page name"},
							&cli.StringFlag{Name: "title"},
							&cli.StringFlag{Name: "meta-name"},
							&cli.StringFlag{Name: "description", Usage: "meta description"},
							&cli.StringFlag{Name: "changefreq", Usage: "always, hourly, daily, weekly, monthly, yearly or never"},
							&cli.Float64Flag{Name: "priority", Usage: "0.0 to 1.0"},
						},
						Action: pages.EditAction,
					},
					{
						Name:  "audit",
						Usage: "compare titles and descriptions with the live pages",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent fetches"},
							&cli.StringFlag{Name: "format", Value: "table", Usage: "table, yaml or json"},
						},
						Action: pages.AuditAction,
					},
					{Name: "delete", Usage: "delete pages by id", ArgsUsage: "<id> [<id>...]", Action: pages.DeleteAction},
					{
						Name:   "clear",
						Usage:  "delete every page",
						Flags:  []cli.Flag{&cli.BoolFlag{Name: "yes", Usage: "confirm"}},
						Action: pages.ClearAction,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "write the registry as JSON",
				Flags:  []cli.Flag{outFlag()},
				Action: transfer.ExportAction,
			},
			{
				Name:      "import",
				Usage:     "replace the registry with a JSON export",
				ArgsUsage: "<file.json>",
				Action:    transfer.ImportAction,
			},
			{
				Name:   "sitemap",
				Usage:  "generate sitemap.xml from the registry",
				Flags:  []cli.Flag{outFlag()},
				Action: transfer.SitemapAction,
			},
			{
				Name:  "db",
				Usage: "inspect discovery history",
				Subcommands: []*cli.Command{
					{
						Name:   "runs",
						Usage:  "list recent discovery runs",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20}},
						Action: db.RunsAction,
					},
					{Name: "run", Usage: "show the fetch attempts of a run", ArgsUsage: "[id]", Action: db.RunAction},
				},
			},
			{
				Name:  "quickstart",
				Usage: "print a quick reference",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return err
				},
			},
		},
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to `FILE` instead of stdout"}
}
