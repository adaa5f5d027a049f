package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pokehub/internal/engine"
	"pokehub/internal/ui"
)

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle a Pokemon in or out of favorites",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("id must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.ParseInt(args[0], 10, 64)

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			fav, err := svc.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("#%d", id)
			if e, ok := svc.Snapshot().Entry(id); ok {
				name = e.Name
			}
			out := cmd.OutOrStdout()
			if fav {
				fmt.Fprintln(out, ui.Heart(true)+" "+ui.Good.Render(name+" added to favorites"))
			} else {
				fmt.Fprintln(out, ui.Heart(false)+" "+name+" removed from favorites")
			}
			return nil
		},
	}

	return cmd
}

func newFavoritesCmd() *cobra.Command {
	var cards bool

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorite Pokemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			snap := svc.Snapshot()
			f := engine.Filter{FavoritesOnly: true}
			printEntries(cmd, snap, snap.Apply(f), f, cards)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cards, "cards", false, "Render full cards instead of one line per entry")

	return cmd
}
