package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pokehub/internal/catalog"
	"pokehub/internal/ui"
)

func newRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Show entry counts per region",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			counts := svc.CountsByRegion()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconGlobe, "Regions"))
			for _, r := range catalog.Regions() {
				line := fmt.Sprintf("- %-8s %d", r, counts[r])
				if counts[r] == 0 && r != catalog.RegionAll {
					line = ui.Muted.Render(line)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	return cmd
}
