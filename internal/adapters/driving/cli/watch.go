package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/blueprint/internal/core/domain"
	"github.com/custodia-labs/blueprint/internal/logger"
)

var watchDryRun bool

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Import design files as they appear in a directory",
	Long: `Watches a directory and builds every *.json design response written to it.
Files are imported one at a time, in the order they arrive. A file that fails
to import is reported and skipped; the watch keeps running until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "build and roll back every file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmd.Printf("Watching %s for design files (Ctrl-C to stop)\n", dir)
	w := &designWatcher{
		cmd:  cmd,
		opts: domain.ImportOptions{DryRun: watchDryRun},
		seen: make(map[string][]byte),
	}
	return w.loop(ctx, watcher.Events, watcher.Errors)
}

// designWatcher imports design files reported by fsnotify, one at a time.
type designWatcher struct {
	cmd  *cobra.Command
	opts domain.ImportOptions

	// seen holds the last imported content per path so repeated write
	// events for one save import once.
	seen map[string][]byte
}

func (w *designWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			path, ok := designFileFromEvent(event)
			if !ok {
				continue
			}
			w.handle(ctx, path)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func (w *designWatcher) handle(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}
	// Editors often create the file before writing it.
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(w.seen[path], data) {
		return
	}
	w.seen[path] = data

	opts := w.opts
	opts.Label = filepath.Base(path)
	result, err := importer.ImportPayload(ctx, data, opts)
	if err != nil {
		w.cmd.PrintErrf("%s: %s\n", opts.Label, describeError(err))
		return
	}
	w.cmd.Printf("%s: %s\n", opts.Label, oneLine(result.Record))
}

// designFileFromEvent returns the path of a visible *.json file that was
// created or written.
func designFileFromEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".json") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

func oneLine(r domain.ImportRecord) string {
	c := r.Created
	if r.Status == domain.ImportDryRun {
		c = r.Planned
	}
	return fmt.Sprintf("%s: %d levels, %d walls, %d rooms, %d openings",
		r.Status, c.Levels, c.Walls, c.Rooms, c.Openings)
}
