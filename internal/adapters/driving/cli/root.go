// Package cli provides the palomar command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/core/ports/driving"
	"github.com/custodia-labs/palomar/internal/logger"
)

// version is set at build time.
var version = "dev"

// annotationOffline marks commands that run without the catalogue.
const annotationOffline = "palomar/offline"

// Options are the global flags passed to the Builder.
type Options struct {
	// ConfigDir holds config.toml and, by default, the data directory.
	ConfigDir string

	// Ephemeral keeps every store in memory.
	Ephemeral bool
}

// Services are the core services the commands drive.
type Services struct {
	Catalog driving.CatalogService

	// CatalogErr explains a nil Catalog, such as an unusable source setting.
	// Settings commands still run so the setting can be fixed.
	CatalogErr error

	Settings  driving.SettingsService
	Scheduler driving.Scheduler

	// Watcher is set when the configured source can report changes.
	Watcher driven.Watcher

	// Metrics is served at /metrics by mcp serve --port.
	Metrics http.Handler

	// ReloadInterval is how often the TUI re-reads the catalogue.
	ReloadInterval time.Duration

	// Close releases stores and sources.
	Close func() error
}

// Builder constructs the services from the global flags.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	verbose   bool
	configDir string
	ephemeral bool

	builder  Builder
	services *Services

	catalogService  driving.CatalogService
	catalogErr      error
	settingsService driving.SettingsService
	scheduler       driving.Scheduler
	sourceWatcher   driven.Watcher
	metricsHandler  http.Handler
	reloadInterval  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "palomar",
	Short: "Catalogue of the birds in the loft",
	Long: `palomar reads the loft's bird catalogue from a published Google Sheet,
keeps an offline copy of the last good fetch and a local overlay of edits,
and renders it as a command line, a terminal UI or an MCP server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", os.Getenv("PALOMAR_CONFIG_DIR"),
		"configuration directory (default ~/.palomar)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep snapshot and overlay in memory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetBuilder sets the constructor used to build services before a command runs.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices installs already built services.
func SetServices(s *Services) {
	services = s
	if s == nil {
		catalogService = nil
		catalogErr = nil
		settingsService = nil
		scheduler = nil
		sourceWatcher = nil
		metricsHandler = nil
		reloadInterval = 0
		return
	}
	catalogService = s.Catalog
	catalogErr = s.CatalogErr
	settingsService = s.Settings
	scheduler = s.Scheduler
	sourceWatcher = s.Watcher
	metricsHandler = s.Metrics
	reloadInterval = s.ReloadInterval
}

// Close releases the services built for the last command.
func Close() error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services.Close = nil
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationOffline] == "true" || builder == nil || services != nil {
		return nil
	}

	s, err := builder(cmd.Context(), Options{ConfigDir: configDir, Ephemeral: ephemeral})
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// requireCatalog returns the catalogue service or a configuration error.
func requireCatalog() (driving.CatalogService, error) {
	if catalogService == nil {
		if catalogErr != nil {
			return nil, fmt.Errorf("catalogue unavailable: %w", catalogErr)
		}
		return nil, errors.New("catalogue service not configured")
	}
	return catalogService, nil
}

// loadCatalog refreshes the catalogue before a read, warning when the
// offline copy is used.
func loadCatalog(cmd *cobra.Command) (driving.CatalogService, error) {
	catalog, err := requireCatalog()
	if err != nil {
		return nil, err
	}
	res, err := catalog.Refresh(commandContext(cmd))
	if err != nil {
		return nil, fmt.Errorf("catalogue unavailable: %w", err)
	}
	reportStale(cmd, res)
	return catalog, nil
}

// commandContext returns the command context, defaulting to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// reportStale tells the user a command is reading the offline copy.
func reportStale(cmd *cobra.Command, res domain.RefreshResult) {
	if !res.Stale() {
		return
	}
	msg := "warning: sheet unavailable, showing the offline copy"
	if res.Cause != nil {
		msg += " (" + res.Cause.Error() + ")"
	}
	cmd.PrintErrln(msg)
}
