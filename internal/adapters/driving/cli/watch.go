package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/palomar/internal/core/ports/driving"
	"github.com/custodia-labs/palomar/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the offline copy current",
	Long: `Refreshes the catalogue now, then again on every refresh interval and,
for a local CSV source, whenever the file changes. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	var changes <-chan struct{}
	if sourceWatcher != nil {
		if changes, err = sourceWatcher.Watch(ctx); err != nil {
			return err
		}
	}
	if changes == nil && scheduler == nil {
		return errors.New("nothing to watch: the source reports no changes and no scheduler is configured")
	}

	if scheduler != nil {
		go func() {
			if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("scheduler stopped", "error", err)
			}
		}()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("scheduler stop error", "error", err)
			}
		}()
	}

	refreshOnce(ctx, cmd, catalog)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				changes = nil
				if scheduler == nil {
					return nil
				}
				continue
			}
			refreshOnce(ctx, cmd, catalog)
		}
	}
}

// refreshOnce refreshes and reports the outcome on one line.
func refreshOnce(ctx context.Context, cmd *cobra.Command, catalog driving.CatalogService) {
	stamp := time.Now().Format("15:04:05")
	res, err := catalog.Refresh(ctx)
	switch {
	case err != nil:
		cmd.Printf("[%s] refresh failed: %v\n", stamp, err)
	case res.Stale():
		cmd.Printf("[%s] sheet unavailable, %d birds from the offline copy\n", stamp, res.Count)
	default:
		cmd.Printf("[%s] fetched %d birds\n", stamp, res.Count)
	}
}
