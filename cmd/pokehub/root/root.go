package root

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pokehub/internal/app"
	"pokehub/internal/ui"
)

const Version = "0.1.0"

var cfg = app.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:           "pokehub",
	Short:         "PokeHub: browse, favorite and add Pokemon",
	Long:          "PokeHub is a local-first Pokemon catalog with favorites, region filters and an admin form, as a CLI, TUI and HTTP service.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := app.NewLogger(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(log)
		return nil
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DBPath, "db", "", "Local store path (default ~/.pokehub.db)")
	pf.StringVar(&cfg.Data, "data", cfg.Data, "Data document: file path, http(s) base URL, or "+app.StoreData)
	pf.StringVar(&cfg.Persist, "persist", cfg.Persist, "Persister for added entries (stub|store|http)")
	pf.StringVar(&cfg.PersistURL, "persist-url", "", "Target URL for --persist=http")
	pf.DurationVar(&cfg.PersistDelay, "persist-delay", cfg.PersistDelay, "Delay of the stub persister")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newListCmd(),
		newRegionsCmd(),
		newFavCmd(),
		newFavoritesCmd(),
		newAddCmd(),
		newBoardCmd(),
		newServeCmd(),
		newSchemaCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
