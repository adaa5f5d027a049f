package root

import (
	"github.com/spf13/cobra"

	"pokehub/internal/catalog"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the data document",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := catalog.MarshalDocumentSchema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	return cmd
}
