package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/service"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// SearchOptions holds options for the search command.
type SearchOptions struct {
	People bool
	JSON   bool
	Filter string
}

func newSearchCommand(root *RootOptions) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search shows or people",
		Long:  "Search the catalog. The query is remembered for this shell session (see last-query).",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, root, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.People, "people", "p", false, "Search people instead of shows")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Keep only results whose title fuzzily matches")

	return cmd
}

func runSearch(cmd *cobra.Command, root *RootOptions, query string, opts *SearchOptions) error {
	a, err := root.openCommandApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Catalog.SetLastQuery(query); err != nil {
		// The search itself can still run
		a.Logger.Warn("failed to save last query", "error", err)
	}

	kind := domain.SearchShows
	if opts.People {
		kind = domain.SearchPeople
	}

	results, err := a.Catalog.Search(context.Background(), kind, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	results = service.FilterResults(results, opts.Filter)

	starred := a.Catalog.Starred()
	if opts.JSON {
		if kind == domain.SearchPeople {
			return outputJSON(cmd, lo.FilterMap(results, func(r domain.SearchResult, _ int) (*domain.Person, bool) {
				return r.Person, r.Person != nil
			}))
		}
		shows := lo.FilterMap(results, func(r domain.SearchResult, _ int) (*domain.Show, bool) {
			return r.Show, r.Show != nil
		})
		return outputJSON(cmd, showsJSON(shows, starred.IsStarred))
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found")
		return nil
	}
	for _, r := range results {
		switch {
		case r.Show != nil:
			printShowLine(out, r.Show, starred.IsStarred(r.Show.ID))
		case r.Person != nil:
			printPersonLine(out, r.Person)
		}
	}
	return nil
}

func newLastQueryCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "last-query",
		Short: "Print the last search query of this shell session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openCommandApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), a.Catalog.LastQuery())
			return nil
		},
	}
}
