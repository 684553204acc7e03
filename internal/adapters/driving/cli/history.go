package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent imports",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one import",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of imports")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	records, err := importer.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}

	if historyJSON {
		if records == nil {
			records = []domain.ImportRecord{}
		}
		return outputJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No imports yet.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("%s  %s  %-9s  %s\n", r.ID[:min(8, len(r.ID))], r.StartedAt.Local().Format(time.DateTime), r.Status, r.Label)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	record, err := importer.GetRecord(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("import %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get import: %w", err)
	}

	if historyJSON {
		return outputJSON(cmd, record)
	}

	cmd.Printf("ID:       %s\n", record.ID)
	cmd.Printf("Source:   %s\n", record.Source)
	cmd.Printf("Label:    %s\n", record.Label)
	cmd.Printf("Started:  %s\n", record.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("Duration: %s\n", record.Duration().Round(time.Millisecond))
	cmd.Printf("Status:   %s\n", record.Status)
	if record.Phase != 0 {
		cmd.Printf("Phase:    %s\n", record.Phase)
	}
	if record.Error != "" {
		cmd.Printf("Error:    %s\n", record.Error)
	}
	cmd.Println("Planned:")
	writeCounts(cmd.OutOrStdout(), record.Planned)
	cmd.Println("Created:")
	writeCounts(cmd.OutOrStdout(), record.Created)
	return nil
}
