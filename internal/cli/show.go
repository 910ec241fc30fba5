package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/state"
	"github.com/spf13/cobra"
)

func parseShowID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidShowID, arg)
	}
	return id, nil
}

func newShowCommand(root *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show details, seasons and cast of a show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseShowID(args[0])
			if err != nil {
				return err
			}

			a, err := root.openCommandApp()
			if err != nil {
				return err
			}
			defer a.Close()

			// Same fetcher the detail view uses
			fetcher := a.Catalog.NewShowFetcher(state.WithContext(cmd.Context()))
			defer fetcher.Close()
			fetcher.SetKey(id)
			fetcher.Wait()

			st := fetcher.State()
			if st.Err != "" {
				return fmt.Errorf("failed to fetch show %d: %s", id, st.Err)
			}
			show := *st.Data
			starred := a.Catalog.Starred().IsStarred(show.ID)

			if asJSON {
				return outputJSON(cmd, show)
			}
			printShowDetail(cmd.OutOrStdout(), show, starred)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the show as JSON")
	return cmd
}

func newStarCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "star ID...",
		Short: "Add shows to the starred list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStar(cmd, root, args, true)
		},
	}
}

func newUnstarCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unstar ID...",
		Short: "Remove shows from the starred list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStar(cmd, root, args, false)
		},
	}
}

func runStar(cmd *cobra.Command, root *RootOptions, args []string, add bool) error {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := parseShowID(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	a, err := root.openCommandApp()
	if err != nil {
		return err
	}
	defer a.Close()

	starred := a.Catalog.Starred()
	for _, id := range ids {
		action := state.Remove(id)
		if add {
			action = state.Add(id)
		}
		if err := starred.Dispatch(action); err != nil {
			return fmt.Errorf("failed to save starred shows: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d starred\n", len(starred.IDs()))
	return nil
}

func newStarredCommand(root *RootOptions) *cobra.Command {
	var (
		asJSON  bool
		idsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "starred",
		Short: "List starred shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openCommandApp()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			ids := a.Catalog.Starred().IDs()
			if idsOnly {
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			shows, err := a.Catalog.FetchShows(context.Background(), ids)
			if err != nil {
				return fmt.Errorf("failed to fetch starred shows: %w", err)
			}

			if asJSON {
				return outputJSON(cmd, showsJSON(shows, func(int) bool { return true }))
			}
			if len(shows) == 0 {
				fmt.Fprintln(out, "No shows were added")
				return nil
			}
			for _, s := range shows {
				printShowLine(out, s, true)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output shows as JSON")
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "Print ids without fetching shows")
	return cmd
}
