package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/palomar/internal/adapters/driven/config/file"
	"github.com/custodia-labs/palomar/internal/adapters/driven/metrics"
	"github.com/custodia-labs/palomar/internal/adapters/driven/photos"
	filestore "github.com/custodia-labs/palomar/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/palomar/internal/adapters/driven/storage/memory"
	redisstore "github.com/custodia-labs/palomar/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/palomar/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/palomar/internal/adapters/driving/cli"
	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/core/services"
	"github.com/custodia-labs/palomar/internal/logger"
	"github.com/custodia-labs/palomar/internal/normalisers/sheet"
)

// buildServices wires the adapters selected by the settings into the core services.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	if err := services.LoadDotEnv(); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	// Settings commands must stay usable to repair the configuration
	out := &cli.Services{Settings: settingsService}
	settings, err := settingsService.Get()
	if err == nil {
		err = wireCatalog(ctx, opts, settings, out)
	}
	if err != nil {
		logger.Debug("catalogue not wired", "error", err)
		out.CatalogErr = err
	}
	return out, nil
}

// wireCatalog builds the source, stores and catalogue into out.
// On error every resource opened so far is released.
func wireCatalog(ctx context.Context, opts cli.Options, settings *domain.AppSettings, out *cli.Services) (err error) {
	var closers []func() error
	defer func() {
		if err != nil {
			_ = closeAll(closers)
			return
		}
		out.Close = func() error { return closeAll(closers) }
	}()

	loc, err := location(settings.Timezone)
	if err != nil {
		return err
	}

	source, err := services.NewSourceRegistry().Build(ctx, settings.Source)
	if err != nil {
		return fmt.Errorf("building %s source: %w", settings.Source.Kind, err)
	}
	closers = append(closers, source.Close)

	st, err := openStores(opts, settings.Storage)
	closers = append(closers, st.closers...)
	if err != nil {
		return err
	}

	catalog := services.NewCatalogService(source, sheet.New(), st.snapshots, st.overlay)
	catalog.SetLocation(loc)

	recorder := metrics.New()
	catalog.SetMetrics(recorder)
	out.Metrics = recorder.Handler()

	if settings.PhotoDir != "" {
		library, perr := photos.New(settings.PhotoDir)
		if perr != nil {
			logger.Warn("photo library disabled", "dir", settings.PhotoDir, "error", perr)
		} else {
			catalog.SetPhotoLibrary(library)
		}
	}

	out.Catalog = catalog
	out.Scheduler = services.NewScheduler(
		domain.DefaultSchedulerConfig(settings.RefreshInterval), st.scheduler, catalog)
	if w, ok := source.(driven.Watcher); ok {
		out.Watcher = w
	}
	return nil
}

// stores are the persistence adapters chosen by the storage settings.
type stores struct {
	snapshots driven.SnapshotStore
	overlay   driven.OverlayStore
	scheduler driven.SchedulerStore
	closers   []func() error
}

// openStores opens the configured backends. Ephemeral keeps everything in memory.
func openStores(opts cli.Options, cfg domain.StorageSettings) (*stores, error) {
	st := &stores{scheduler: memory.NewSchedulerStore()}
	if opts.Ephemeral {
		st.snapshots = memory.NewSnapshotStore()
		st.overlay = memory.NewOverlayStore()
		return st, nil
	}

	dataDir := cfg.DataDir
	if dataDir == "" && opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}

	var db *sqlite.Store
	openDB := func() (*sqlite.Store, error) {
		if db != nil {
			return db, nil
		}
		var err error
		if db, err = sqlite.NewStore(dataDir); err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		st.closers = append(st.closers, db.Close)
		st.scheduler = db.SchedulerStore()
		return db, nil
	}

	switch cfg.Overlay {
	case domain.StoreMemory:
		st.overlay = memory.NewOverlayStore()
	case domain.StoreSQLite, "":
		d, err := openDB()
		if err != nil {
			return st, err
		}
		st.overlay = d.OverlayStore()
	default:
		return st, fmt.Errorf("%w: overlay backend %q (want %s or %s)",
			domain.ErrUnsupportedType, cfg.Overlay, domain.StoreMemory, domain.StoreSQLite)
	}

	switch cfg.Snapshot {
	case domain.StoreMemory:
		st.snapshots = memory.NewSnapshotStore()
	case domain.StoreFile, "":
		snap, err := filestore.NewSnapshotStore(dataDir)
		if err != nil {
			return st, err
		}
		st.snapshots = snap
	case domain.StoreSQLite:
		d, err := openDB()
		if err != nil {
			return st, err
		}
		st.snapshots = d.SnapshotStore()
	case domain.StoreRedis:
		if cfg.RedisURL == "" {
			return st, fmt.Errorf("%w: redis snapshot store needs a URL", domain.ErrInvalidInput)
		}
		rs, err := redisstore.NewSnapshotStore(cfg.RedisURL)
		if err != nil {
			return st, err
		}
		st.closers = append(st.closers, rs.Close)
		st.snapshots = rs
	default:
		return st, fmt.Errorf("%w: snapshot backend %q", domain.ErrUnsupportedType, cfg.Snapshot)
	}
	return st, nil
}

// location resolves an IANA zone name, defaulting to local time.
func location(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", domain.ErrInvalidInput, name, err)
	}
	return loc, nil
}

// closeAll runs closers in reverse order.
func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
