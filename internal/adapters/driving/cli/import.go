package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/blueprint/internal/adapters/driving/form"
	"github.com/custodia-labs/blueprint/internal/core/domain"
)

var (
	importArea         float64
	importBedrooms     int
	importBathrooms    int
	importStyle        string
	importRequirements string
	importFile         string
	importDryRun       bool
	importInteractive  bool
	importJSON         bool
)

// Swapped in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	runForm         = form.Run
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Generate a design and build it into the model",
	Long: `Requests a floor plan from the design service and builds it into the
model in a single transaction. Levels are created first, then walls, rooms
and openings. If any element fails, nothing is kept.

Without flags on a terminal, an interactive form asks for the brief.
Use --file to build a saved service response instead of calling the service.`,
	Example: `  blueprint import --area 120 --bedrooms 3 --bathrooms 2 --style Modern
  blueprint import --file design.json --dry-run`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().Float64Var(&importArea, "area", 0, "total floor area in square metres")
	importCmd.Flags().IntVar(&importBedrooms, "bedrooms", 0, "number of bedrooms")
	importCmd.Flags().IntVar(&importBathrooms, "bathrooms", 0, "number of bathrooms")
	importCmd.Flags().StringVar(&importStyle, "style", domain.StyleModern.String(),
		"architectural style (Modern, Traditional, Minimalist, Contemporary)")
	importCmd.Flags().StringVar(&importRequirements, "requirements", "", "additional requirements passed to the service")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "build a saved design response instead of calling the service")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "build and roll back without keeping anything")
	importCmd.Flags().BoolVarP(&importInteractive, "interactive", "i", false, "always show the request form")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "output the import record as JSON")
	importCmd.MarkFlagsMutuallyExclusive("file", "interactive")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	// Ctrl-C cancels the request; a build that has started always finishes.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := domain.ImportOptions{DryRun: importDryRun}

	var (
		result *domain.ImportResult
		err    error
	)
	if importFile != "" {
		result, err = importPayloadFile(ctx, importFile, opts)
	} else {
		var req domain.DesignRequest
		req, err = requestFromInput(ctx, cmd)
		if errors.Is(err, domain.ErrInputCancelled) {
			cmd.Println("Import cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
		if !importJSON {
			cmd.Printf("Requesting %s design...\n", summary(req))
		}
		result, err = importer.Import(ctx, req, opts)
	}
	if err != nil {
		return err
	}

	if importJSON {
		return outputJSON(cmd, result.Record)
	}
	outputImportResult(cmd, result)
	return nil
}

func importPayloadFile(ctx context.Context, path string, opts domain.ImportOptions) (*domain.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design file: %w", err)
	}
	opts.Label = filepath.Base(path)
	return importer.ImportPayload(ctx, data, opts)
}

// requestFromInput builds the request from flags, or from the form when the
// brief is missing and stdin is a terminal.
func requestFromInput(ctx context.Context, cmd *cobra.Command) (domain.DesignRequest, error) {
	style, err := domain.ParseStyle(importStyle)
	if err != nil {
		return domain.DesignRequest{}, err
	}

	briefGiven := importArea != 0
	if importInteractive || (!briefGiven && stdinIsTerminal()) {
		seed := domain.DesignRequest{
			Area:                   importArea,
			Bedrooms:               importBedrooms,
			Bathrooms:              importBathrooms,
			Style:                  style,
			AdditionalRequirements: importRequirements,
		}
		return runForm(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), form.WithSeed(seed))
	}
	if !briefGiven {
		return domain.DesignRequest{}, fmt.Errorf("%w: --area is required when stdin is not a terminal", domain.ErrInvalidInput)
	}

	return domain.NewDesignRequest(importArea, importBedrooms, importBathrooms, style, importRequirements)
}

func outputImportResult(cmd *cobra.Command, result *domain.ImportResult) {
	record := result.Record
	if record.Status == domain.ImportDryRun {
		cmd.Printf("Dry run succeeded in %s; nothing was kept.\n", record.Duration().Round(time.Millisecond))
		writeCounts(cmd.OutOrStdout(), record.Planned)
		return
	}

	cmd.Printf("Design imported in %s (record %s)\n", record.Duration().Round(time.Millisecond), record.ID)
	writeCounts(cmd.OutOrStdout(), record.Created)
	if result.Result != nil && len(result.Result.Activated) > 0 {
		cmd.Printf("  Activated %d family symbol(s)\n", len(result.Result.Activated))
	}
}

func writeCounts(w io.Writer, c domain.Counts) {
	fmt.Fprintf(w, "  Levels:   %d\n", c.Levels)
	fmt.Fprintf(w, "  Walls:    %d\n", c.Walls)
	fmt.Fprintf(w, "  Rooms:    %d\n", c.Rooms)
	fmt.Fprintf(w, "  Openings: %d\n", c.Openings)
}

func summary(req domain.DesignRequest) string {
	return fmt.Sprintf("%s %.0f m² (%d bed, %d bath)", req.Style, req.Area, req.Bedrooms, req.Bathrooms)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
