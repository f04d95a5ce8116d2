package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scenetic/cli/internal/scan"
)

// TagsCmd returns the `scenetic tags` command, one preset fetch cycle.
func TagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Fetch scene presets from the tag service",
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			fetcher := scan.NewFetcher(env.Client, env.FetchOptions()...)
			res, err := fetcher.Fetch(c.Context())
			if err != nil {
				return fmt.Errorf("fetch presets: %w", err)
			}

			out := c.OutOrStdout()
			if res.Origin == scan.OriginFallback {
				fmt.Fprintf(out, "tag service unavailable after %d attempts, showing defaults\n", res.Attempts)
			}
			for _, preset := range res.Presets {
				fmt.Fprintf(out, "  %s\n", preset)
			}
			return nil
		},
	}
}

// ScanCmd returns the `scenetic scan` command, a non-interactive submission.
func ScanCmd() *cobra.Command {
	var presets []string
	cmd := &cobra.Command{
		Use:   "scan [words...]",
		Short: "Submit a scene description and presets for scanning",
		Example: `  scenetic scan misty ruins at dawn
  scenetic scan --preset Forest --preset Rain`,
		RunE: func(c *cobra.Command, args []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			var sel scan.Selection
			for _, preset := range presets {
				sel.Toggle(preset)
			}
			sel.SetFreeText(strings.Join(args, " "))

			res := scan.NewSubmitter(env.Client, logger.Named("scan")).SubmitSelection(c.Context(), &sel)
			if errors.Is(res.Err, scan.ErrNoTags) {
				return errors.New("nothing to scan: pass words or --preset")
			}
			if !res.OK() {
				return res.Err
			}
			fmt.Fprintf(c.OutOrStdout(), "scan started: %s\n", strings.Join(res.Tags, ", "))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&presets, "preset", "p", nil, "preset tag to include (repeatable)")
	return cmd
}

// KeywordsCmd returns the `scenetic keywords` command.
func KeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords <description>",
		Short: "Extract keywords from a scene description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			keywords, err := env.Client.ExtractKeywords(c.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("extract keywords: %w", err)
			}
			if len(keywords) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "no keywords found")
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), strings.Join(keywords, ", "))
			return nil
		},
	}
}

// LogsCmd returns the `scenetic logs` command.
func LogsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List saved scene matches",
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			stores, err := env.OpenStores(c.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			matches, err := stores.Docs.ListMatches(c.Context(), limit)
			if err != nil {
				return fmt.Errorf("list matches: %w", err)
			}
			logger.Debug("matches listed", zap.Int("count", len(matches)))

			out := c.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "no matches found")
				return nil
			}
			day := ""
			for _, m := range matches {
				local := m.CreatedAt.In(time.Local)
				if d := local.Format("Monday, Jan 2 2006"); d != day {
					day = d
					fmt.Fprintln(out, day)
				}
				fmt.Fprintf(out, "  %s  %-24s  monitor %d  %3d%%  [%s]\n",
					local.Format("15:04"), m.ItemName, m.Monitor, m.Confidence, strings.Join(m.UserTags, " "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum matches to show (0 for all)")
	return cmd
}
