package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

var (
	modelKind    string
	modelCatalog bool
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "List elements in the model",
	Long: `Lists elements of the building model: the catalogue of wall types and
family symbols, and everything built by previous imports.`,
	Args: cobra.NoArgs,
	RunE: runModel,
}

func init() {
	modelCmd.Flags().StringVarP(&modelKind, "kind", "k", "", "only list elements of this kind")
	modelCmd.Flags().BoolVar(&modelCatalog, "catalog", false, "only list wall types and family symbols")
	rootCmd.AddCommand(modelCmd)
}

func runModel(cmd *cobra.Command, _ []string) error {
	if modelService == nil {
		return errors.New("model service not configured")
	}

	var (
		elements []domain.Element
		err      error
	)
	if modelCatalog {
		elements, err = modelService.Catalog(cmd.Context())
	} else {
		elements, err = modelService.Elements(cmd.Context(), domain.ElementKind(modelKind))
	}
	if err != nil {
		return fmt.Errorf("failed to list elements: %w", err)
	}

	if len(elements) == 0 {
		cmd.Println("No elements.")
		return nil
	}

	for _, el := range elements {
		active := ""
		if el.Kind == domain.KindFamilySymbol && el.Active {
			active = " [active]"
		}
		cmd.Printf("  %s%s\n", el, active)
	}
	cmd.Printf("\n%d element(s)\n", len(elements))
	return nil
}
