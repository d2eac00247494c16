package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/newsum/internal/app"
	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
)

func newSearchCmd(f *flags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank article titles against a query and summarize the matches",
		Long: "With a query argument, run it once and print the results. " +
			"Without one, read queries interactively until 'exit'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.New(ctx, cfg)
			if err != nil {
				if errors.Is(err, types.ErrEmptyCorpus) {
					color.Yellow("The corpus is empty. Load articles with 'newsum ingest <file>' first.")
					return nil
				}
				color.Red("Search is unavailable: %v", err)
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				return runQuery(ctx, a, out, strings.Join(args, " "), asJSON)
			}
			return interactive(ctx, a, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func runQuery(ctx context.Context, a *app.App, out io.Writer, query string, asJSON bool) error {
	spinner := getSpinner("🔍 Searching and summarizing...")
	resp, err := a.Pipeline.Query(ctx, query)
	spinner.Finish()

	if err != nil {
		color.New(color.FgRed).Fprintln(out, "Something went wrong while answering this query.")
		return err
	}
	if asJSON {
		return renderJSON(out, resp)
	}
	render(out, resp)
	return nil
}

func interactive(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	color.New(color.FgCyan).Fprintf(out, "\nSearch %d articles (type 'exit' to quit)\n", a.Pipeline.Size())

	scanner := bufio.NewScanner(in)
	userPrompt := color.New(color.FgGreen).FprintfFunc()

	for {
		userPrompt(out, "\nQuery: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if strings.ToLower(query) == "exit" {
			break
		}
		if query == "" {
			continue
		}

		if err := runQuery(ctx, a, out, query, false); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func render(out io.Writer, resp *models.SearchResponse) {
	if resp.Empty() {
		color.New(color.FgYellow).Fprintln(out, "No results.")
		return
	}

	title := color.New(color.FgCyan, color.Bold).FprintfFunc()
	for i, r := range resp.Results {
		title(out, "\n%d. %s\n", i+1, r.Title)
		if r.Source != "" {
			fmt.Fprintf(out, "Source: %s\n", r.Source)
		}
		fmt.Fprintf(out, "Link: %s\n", r.Link)
		fmt.Fprintf(out, "Summary: %s\n", r.Summary)
		fmt.Fprintf(out, "Similarity: %.2f\n", r.Similarity)
	}
}

func renderJSON(out io.Writer, resp *models.SearchResponse) error {
	results := resp.Results
	if results == nil {
		results = []models.RankedResult{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}
