package root

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
	"pokehub/internal/ui"
)

func newAddCmd() *cobra.Command {
	var in catalog.NewEntry
	var types []string
	var region string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new Pokemon to the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range types {
				t, err := catalog.ParseType(s)
				if err != nil {
					return err
				}
				in.Types = append(in.Types, t)
			}
			if region != "" {
				r, err := catalog.ParseRegion(region)
				if err != nil {
					return err
				}
				in.Region = r
			}

			var verrs catalog.ValidationErrors
			if err := in.Validate(); errors.As(err, &verrs) {
				printValidation(cmd, verrs)
				return errors.New("please fix the errors above")
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			added, err := svc.AddEntry(ctx, in)
			if err != nil {
				var perr *engine.PersistError
				if errors.As(err, &perr) {
					return fmt.Errorf("failed to add Pokemon: %w", perr.Err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Pokemon Added!"))
			fmt.Fprintf(out, "%s has been added to the collection.\n", added.Name)
			fmt.Fprintln(out, ui.Card(added, false))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "Name")
	cmd.Flags().StringArrayVarP(&types, "type", "t", nil, "Type (repeat for a second type)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region")
	cmd.Flags().StringVar(&in.Image, "image", "", "Image URL")
	cmd.Flags().IntVar(&in.HP, "hp", 0, "HP (1-255)")
	cmd.Flags().IntVar(&in.Attack, "attack", 0, "Attack (1-255)")
	cmd.Flags().IntVar(&in.Defense, "defense", 0, "Defense (1-255)")
	cmd.Flags().IntVar(&in.Speed, "speed", 0, "Speed (1-255)")

	return cmd
}

func printValidation(cmd *cobra.Command, verrs catalog.ValidationErrors) {
	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := cmd.ErrOrStderr()
	for _, k := range keys {
		fmt.Fprintf(out, "%s %s\n", ui.Warn.Render(ui.IconWarn), verrs[k])
	}
}
