package db

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/seo-companion/internal/common"
	"github.com/urfave/cli/v2"
)

// RunsAction lists recent discovery runs.
func RunsAction(c *cli.Context) error {
	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	runs, err := env.DB.ListRuns(c.Int("limit"))
	if err != nil {
		env.Logger.Error("failed to list runs", "error", err)
		return cli.Exit("", common.ExitInfra)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No discovery runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-10s %-9s %-6s %-6s %-30s\n",
		"ID", "Created", "Outcome", "Source", "Found", "Added", "Site")
	fmt.Fprintln(w, strings.Repeat("-", 95))
	for _, r := range runs {
		source := r.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(w, "%-6d %-20s %-10s %-9s %-6d %-6d %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Outcome,
			source,
			r.PagesFound,
			r.PagesAdded,
			r.BaseURL,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'seo-companion db run <id>' to see each fetch attempt\n")
	return nil
}

// RunAction shows the attempts of one run, the latest when no id is given.
func RunAction(c *cli.Context) error {
	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	runID, err := GetRunIDOrLatest(c, env)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}

	attempts, err := env.DB.GetRunAttempts(runID)
	if err != nil {
		env.Logger.Error("failed to get attempts", "error", err, "run_id", runID)
		return cli.Exit("", common.ExitInfra)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d: %d attempt(s)\n\n", runID, len(attempts))
	for i, a := range attempts {
		status := fmt.Sprintf("found %d", a.Found)
		if a.Index {
			status = fmt.Sprintf("index, %d child sitemap(s)", a.Found)
		}
		if a.Error != "" {
			status = "failed: " + a.Error
		}
		fmt.Fprintf(w, "%d. [%s] %s\n   %s\n", i+1, a.Source, a.URL, status)
	}
	return nil
}
