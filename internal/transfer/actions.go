package transfer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dtnitsch/seo-companion/internal/common"
	"github.com/dtnitsch/seo-companion/pkg/sitemap"
	"github.com/dtnitsch/seo-companion/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ExportAction writes the registry as {"seoPages": [...]} to --out or stdout.
func ExportAction(c *cli.Context) error {
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

	var buf bytes.Buffer
	if err := storage.WriteExport(&buf, pages); err != nil {
		return err
	}
	return emit(c, env, buf.Bytes(), "exported pages", len(pages))
}

// ImportAction replaces the registry with the pages of an export file.
func ImportAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: seo-companion import <file.json>", common.ExitUsage)
	}
	file, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}
	defer file.Close()

	pages, err := storage.ReadExport(file)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.DB.ReplacePages(pages); err != nil {
		env.Logger.Error("failed to save pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d page(s)\n", len(pages))
	return nil
}

// SitemapAction serializes the registry as sitemap.xml.
func SitemapAction(c *cli.Context) error {
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

	xml, err := sitemap.Serialize(pages, base)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}
	return emit(c, env, []byte(xml), "sitemap written", len(pages))
}

func emit(c *cli.Context, env *common.Env, data []byte, msg string, count int) error {
	out := c.String("out")
	if out == "" || out == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if err := storage.SaveFile(out, data); err != nil {
		env.Logger.Error("failed to write output", "error", err, "path", out)
		return cli.Exit("", common.ExitInfra)
	}
	env.Logger.Info(msg, "path", out, "pages", count)
	fmt.Fprintln(c.App.Writer, out)
	return nil
}
