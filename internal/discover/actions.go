package discover

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/seo-companion/internal/common"
	"github.com/dtnitsch/seo-companion/models"
	"github.com/dtnitsch/seo-companion/pkg/db"
	"github.com/dtnitsch/seo-companion/pkg/discovery"
	"github.com/dtnitsch/seo-companion/pkg/registry"
	"github.com/dtnitsch/seo-companion/pkg/urlnorm"
	"github.com/urfave/cli/v2"
)

// SuggestedPaths is printed when discovery finds nothing and no manual input is given.
var SuggestedPaths = []string{"/", "/apartments", "/fully-furnished", "/condo-rentals", "/rooms-for-rent", "/property-owners", "/contact-us"}

// Summary is the JSON printed after a discovery run.
type Summary struct {
	RunID    int64            `json:"runId"`
	BaseURL  string           `json:"baseUrl"`
	Outcome  string           `json:"outcome"`
	Source   string           `json:"source,omitempty"`
	Found    int              `json:"found"`
	Added    int              `json:"added"`
	Total    int              `json:"total"`
	Attempts []AttemptSummary `json:"attempts"`
}

type AttemptSummary struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Index  bool   `json:"index,omitempty"`
	Found  int    `json:"found"`
	Error  string `json:"error,omitempty"`
}

// DiscoverAction finds pages for the site and merges them into the registry.
// An optional argument sets the site URL first.
func DiscoverAction(c *cli.Context) error {
	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	if c.NArg() > 0 {
		base, err := urlnorm.CleanBaseURL(c.Args().First())
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
		}
		if err := env.DB.SetSiteBaseURL(base); err != nil {
			env.Logger.Error("failed to save site", "error", err)
			return cli.Exit("", common.ExitInfra)
		}
	}
	base, err := env.BaseURL()
	if err != nil {
		return err
	}

	synth, err := env.Synthesizer()
	if err != nil {
		return err
	}
	f, err := env.Fetcher()
	if err != nil {
		return err
	}
	d := discovery.New(f, synth, discovery.Options{
		MaxSitemaps:  env.Config.MaxSitemaps,
		FollowRobots: env.Config.FollowRobots,
		Logger:       env.Logger,
	})

	res, err := d.Discover(c.Context, base)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}

	existing, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to load pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	merged := registry.Merge(existing, res.Pages)
	if len(merged.Added) > 0 {
		if err := env.DB.ReplacePages(merged.Pages); err != nil {
			env.Logger.Error("failed to save pages", "error", err)
			return cli.Exit("", common.ExitInfra)
		}
	}

	run := toRun(base, res, len(merged.Added))
	runID, err := env.DB.InsertRun(run)
	if err != nil {
		env.Logger.Warn("failed to record discovery run", "error", err)
	}

	summary := Summary{
		RunID:   runID,
		BaseURL: base,
		Outcome: string(res.Outcome),
		Source:  string(res.Source),
		Found:   len(res.Pages),
		Added:   len(merged.Added),
		Total:   len(merged.Pages),
	}
	for _, a := range run.Attempts {
		summary.Attempts = append(summary.Attempts, AttemptSummary(a))
	}
	if err := common.Write(c.App.Writer, "json", summary); err != nil {
		return err
	}

	if res.Outcome == discovery.Exhausted {
		printManualHint(c.App.ErrWriter)
	}
	return nil
}

func toRun(base string, res discovery.Result, added int) db.Run {
	run := db.Run{
		BaseURL:    base,
		Outcome:    string(res.Outcome),
		Source:     string(res.Source),
		PagesFound: len(res.Pages),
		PagesAdded: added,
	}
	for _, a := range res.Attempts {
		ra := db.RunAttempt{Source: string(a.Source), URL: a.URL, Index: a.Index, Found: a.Found}
		if a.Err != nil {
			ra.Error = a.Err.Error()
		}
		run.Attempts = append(run.Attempts, ra)
	}
	return run
}

func printManualHint(w io.Writer) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "No pages could be discovered automatically (the site may block cross-origin fetches).")
	fmt.Fprintln(w, "Add page URLs manually, one per line:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  printf '%s\\n' | seo-companion import-urls\n", strings.Join(SuggestedPaths, `\n`))
	fmt.Fprintln(w, "  seo-companion import-urls --file pages.txt")
}

// ImportURLsAction adds pages from paths or URLs given one per line on stdin or in --file.
func ImportURLsAction(c *cli.Context) error {
	var in io.Reader = c.App.Reader
	if path := c.String("file"); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
		}
		defer file.Close()
		in = file
	}

	lines, err := readLines(in)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: failed to read input: %v", err), common.ExitUsage)
	}

	env, err := common.Load(c)
	if err != nil {
		return err
	}
	defer env.Close()

	base, err := env.BaseURL()
	if err != nil {
		return err
	}
	synth, err := env.Synthesizer()
	if err != nil {
		return err
	}

	imported, err := registry.ImportLines(lines, base, synth, models.Today(time.Now()))
	if errors.Is(err, models.ErrInvalidURL) {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUsage)
	}
	if err != nil {
		return err
	}
	for _, line := range imported.Skipped {
		env.Logger.Warn("skipping invalid URL", "line", line)
	}
	if len(imported.Pages) == 0 {
		return cli.Exit("No valid URLs found to import.", common.ExitUsage)
	}

	existing, err := env.DB.ListPages()
	if err != nil {
		env.Logger.Error("failed to load pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}
	merged := registry.Merge(existing, imported.Pages)
	if err := env.DB.ReplacePages(merged.Pages); err != nil {
		env.Logger.Error("failed to save pages", "error", err)
		return cli.Exit("", common.ExitInfra)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d page(s), %d already present, %d skipped\n",
		len(merged.Added), len(imported.Pages)-len(merged.Added), len(imported.Skipped))
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
