package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
	"pokehub/internal/ui"
)

func newListCmd() *cobra.Command {
	var region string
	var search string
	var favorites bool
	var cards bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Pokemon, filtered by region, search term and favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := catalog.ParseRegion(region)
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			snap := svc.Snapshot()
			f := engine.Filter{Region: r, Search: search, FavoritesOnly: favorites}
			printEntries(cmd, snap, snap.Apply(f), f, cards)
			return nil
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Region (All, Kanto, Johto, …)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive name or type search")
	cmd.Flags().BoolVarP(&favorites, "favorites", "f", false, "Only show favorites")
	cmd.Flags().BoolVar(&cards, "cards", false, "Render full cards instead of one line per entry")

	return cmd
}

func printEntries(cmd *cobra.Command, snap engine.Snapshot, list []catalog.Entry, f engine.Filter, cards bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Muted.Render(ui.Summary(len(list), f)))
	fmt.Fprintln(out, "")
	if len(list) == 0 {
		title, hint := ui.EmptyState(f)
		fmt.Fprintln(out, ui.H2.Render(title))
		fmt.Fprintln(out, ui.Muted.Render(hint))
		return
	}
	for _, e := range list {
		if cards {
			fmt.Fprintln(out, ui.Card(e, snap.IsFavorite(e.ID)))
			continue
		}
		fmt.Fprintln(out, ui.CardLine(e, snap.IsFavorite(e.ID)))
	}
}
