package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `View and change settings stored in ~/.blueprint/config.toml.

Environment variables BLUEPRINT_SERVER_URL, BLUEPRINT_TIMEOUT,
BLUEPRINT_DATA_DIR and BLUEPRINT_API_KEY take precedence over the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("[server]")
	cmd.Printf("  base_url:            %s\n", settings.Server.BaseURL)
	cmd.Printf("  timeout:             %s\n", settings.Server.Timeout)
	cmd.Printf("  requests_per_second: %g\n", settings.Server.RequestsPerSecond)
	cmd.Printf("  cache_size:          %d\n", settings.Server.CacheSize)
	cmd.Printf("  api_key:             %s\n", maskKey(settings.Server.APIKey))
	cmd.Println()
	cmd.Println("[host]")
	cmd.Printf("  data_dir:            %s\n", settings.Host.DataDir)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	shown := args[1]
	if strings.HasSuffix(args[0], "api_key") {
		shown = maskKey(shown)
	}
	cmd.Printf("Set %s = %s\n", args[0], shown)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return err
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

// maskKey keeps secrets out of terminal scrollback.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
