// Package cli provides the cobra commands of the blueprint binary.
package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/blueprint/internal/core/ports/driving"
	"github.com/custodia-labs/blueprint/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// skipServices marks commands that run without the core services.
const skipServices = "skip-services"

var (
	verbose   bool
	configDir string
)

// Services holds the driving ports the commands call.
type Services struct {
	Importer driving.DesignImporter
	Model    driving.ModelService
	Settings driving.SettingsService
}

// Factory builds the services for a config directory.
// The returned func releases whatever the services hold open.
type Factory func(configDir string) (*Services, func() error, error)

var (
	importer        driving.DesignImporter
	modelService    driving.ModelService
	settingsService driving.SettingsService

	factory       Factory
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Generate floor plans and build them into the model",
	Long: `blueprint asks a design generation service for a floor plan and builds
the result into the local building model in one transaction: levels, then
walls, then rooms, then openings. A failure anywhere leaves the model
untouched.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.blueprint)")
}

// SetServices installs the services directly, bypassing any factory.
func SetServices(s *Services) {
	if s == nil {
		importer, modelService, settingsService = nil, nil, nil
		return
	}
	importer = s.Importer
	modelService = s.Model
	settingsService = s.Settings
}

// SetFactory registers how services are built once flags are parsed.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if cmd.Annotations[skipServices] == "true" || factory == nil || importer != nil {
		return nil
	}

	svc, closeFn, err := factory(configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(svc)
	closeServices = closeFn
	return nil
}

// Execute runs the root command and reports any error on stderr.
// Panics are turned into errors so they are never silently lost.
func Execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("stack trace:\n%s", debug.Stack())
			err = fmt.Errorf("unexpected failure: %v", r)
			fmt.Fprintln(rootCmd.ErrOrStderr(), describeError(err))
		}
	}()
	defer release()

	err = rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), describeError(err))
	}
	return err
}

func release() {
	if closeServices == nil {
		return
	}
	if err := closeServices(); err != nil {
		fmt.Fprintf(os.Stderr, "closing: %v\n", err)
	}
	closeServices = nil
}
