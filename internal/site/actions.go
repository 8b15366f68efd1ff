package site

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/seo-companion/internal/common"
	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
	"github.com/urfave/cli/v2"
)

// SetAction stores the website base URL.
func SetAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: seo-companion site set <url>", common.ExitUsage)
	}
	base, err := urlnorm.CleanBaseURL(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.DB.SetSiteBaseURL(base); err != nil {
		env.Logger.Error("failed to save site", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	env.Logger.Info("site saved", "base_url", base)
	fmt.Fprintln(c.App.Writer, base)
	return nil
}

func ShowAction(c *cli.Context) error {
	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	base, err := env.DB.GetSiteBaseURL()
	if errors.Is(err, models.ErrBaseURLMissing) {
		fmt.Fprintln(c.App.Writer, "No website URL set")
		return nil
	}
	if err != nil {
		env.Logger.Error("failed to read site", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	fmt.Fprintf(c.App.Writer, "%s (%s)\n", base, must(urlnorm.SiteNameFromURL(base)))
	return nil
}

func must(s string, err error) string {
	if err != nil {
		return "?"
	}
	return s
}
