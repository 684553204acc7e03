package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the design service and the model",
	Long: `Checks that the design service answers its health endpoint and reports
how many catalogue entries the model holds.

Exits with an error when the service cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	target := "Design service"
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			target += " at " + settings.Server.BaseURL
		}
	}

	if err := importer.CheckService(cmd.Context()); err != nil {
		cmd.Printf("%s: unreachable\n", target)
		return err
	}
	cmd.Printf("%s: ok\n", target)

	if modelService != nil {
		catalog, err := modelService.Catalog(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("Model: %d catalogue element(s)\n", len(catalog))
	}
	return nil
}
