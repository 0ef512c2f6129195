package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeySourceKind        = "source.kind"
	KeySheetID           = "source.sheet_id"
	KeySheetName         = "source.sheet_name"
	KeySourceFile        = "source.file_path"
	KeyGoogleAPIKey      = "source.api_key"
	KeyGoogleAccessToken = "source.access_token"
	KeySnapshotBackend   = "storage.snapshot"
	KeyOverlayBackend    = "storage.overlay"
	KeyDataDir           = "storage.data_dir"
	KeyRedisURL          = "storage.redis_url"
	KeyPhotoDir          = "photos.dir"
	KeyRefreshInterval   = "refresh.interval"
	KeyTimezone          = "timezone"
)

// envOverrides maps environment variables onto config keys.
var envOverrides = map[string]string{
	"PALOMAR_SOURCE":              KeySourceKind,
	"PALOMAR_SHEET_ID":            KeySheetID,
	"PALOMAR_SHEET_NAME":          KeySheetName,
	"PALOMAR_SHEET_FILE":          KeySourceFile,
	"PALOMAR_GOOGLE_API_KEY":      KeyGoogleAPIKey,
	"PALOMAR_GOOGLE_ACCESS_TOKEN": KeyGoogleAccessToken,
	"PALOMAR_SNAPSHOT_BACKEND":    KeySnapshotBackend,
	"PALOMAR_OVERLAY_BACKEND":     KeyOverlayBackend,
	"PALOMAR_DATA_DIR":            KeyDataDir,
	"PALOMAR_REDIS_URL":           KeyRedisURL,
	"PALOMAR_PHOTO_DIR":           KeyPhotoDir,
	"PALOMAR_REFRESH_INTERVAL":    KeyRefreshInterval,
	"PALOMAR_TIMEZONE":            KeyTimezone,
}

// SettingsService manages application settings.
// Values resolve as defaults, then the config store, then the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup. Useful for testing.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; existing variables are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Source: domain.SourceSettings{
			Kind:        domain.SourceKind(s.getString(KeySourceKind, defaults.Source.Kind.String())),
			SheetID:     s.getString(KeySheetID, defaults.Source.SheetID),
			SheetName:   s.getString(KeySheetName, defaults.Source.SheetName),
			FilePath:    s.getString(KeySourceFile, ""),
			APIKey:      s.getString(KeyGoogleAPIKey, ""),
			AccessToken: s.getString(KeyGoogleAccessToken, ""),
		},
		Storage: domain.StorageSettings{
			Snapshot: domain.StoreBackend(s.getString(KeySnapshotBackend, defaults.Storage.Snapshot.String())),
			Overlay:  domain.StoreBackend(s.getString(KeyOverlayBackend, defaults.Storage.Overlay.String())),
			DataDir:  s.getString(KeyDataDir, ""),
			RedisURL: s.getString(KeyRedisURL, ""),
		},
		PhotoDir:        s.getString(KeyPhotoDir, ""),
		RefreshInterval: defaults.RefreshInterval,
		Timezone:        s.getString(KeyTimezone, ""),
	}

	if raw := s.getString(KeyRefreshInterval, ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, KeyRefreshInterval, raw)
		}
		settings.RefreshInterval = d
	}
	if !settings.Source.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrUnsupportedType, KeySourceKind, settings.Source.Kind)
	}
	for _, b := range []domain.StoreBackend{settings.Storage.Snapshot, settings.Storage.Overlay} {
		if !b.IsValid() {
			return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, b)
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	values := map[string]string{
		KeySourceKind:      settings.Source.Kind.String(),
		KeySheetID:         settings.Source.SheetID,
		KeySheetName:       settings.Source.SheetName,
		KeySourceFile:      settings.Source.FilePath,
		KeySnapshotBackend: settings.Storage.Snapshot.String(),
		KeyOverlayBackend:  settings.Storage.Overlay.String(),
		KeyDataDir:         settings.Storage.DataDir,
		KeyRedisURL:        settings.Storage.RedisURL,
		KeyPhotoDir:        settings.PhotoDir,
		KeyRefreshInterval: settings.RefreshInterval.String(),
		KeyTimezone:        settings.Timezone,
	}
	if settings.Source.APIKey != "" {
		values[KeyGoogleAPIKey] = settings.Source.APIKey
	}
	if settings.Source.AccessToken != "" {
		values[KeyGoogleAccessToken] = settings.Source.AccessToken
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.configStore.Set(k, values[k]); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

// Set validates and stores a single key.
func (s *SettingsService) Set(key, value string) error {
	if err := validateSetting(key, value); err != nil {
		return err
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func validateSetting(key, value string) error {
	switch key {
	case KeySourceKind:
		if !domain.SourceKind(value).IsValid() {
			return fmt.Errorf("%w: source kind %q", domain.ErrUnsupportedType, value)
		}
	case KeySnapshotBackend, KeyOverlayBackend:
		if !domain.StoreBackend(value).IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, value)
		}
	case KeyRefreshInterval:
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			return fmt.Errorf("%w: refresh interval %q", domain.ErrInvalidInput, value)
		}
	case KeyTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("%w: timezone %q", domain.ErrInvalidInput, value)
		}
	case KeySheetID, KeySheetName, KeySourceFile, KeyGoogleAPIKey, KeyGoogleAccessToken,
		KeyDataDir, KeyRedisURL, KeyPhotoDir:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

// Keys lists the recognised setting keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := []string{
		KeySourceKind, KeySheetID, KeySheetName, KeySourceFile, KeyGoogleAPIKey,
		KeyGoogleAccessToken, KeySnapshotBackend, KeyOverlayBackend, KeyDataDir,
		KeyRedisURL, KeyPhotoDir, KeyRefreshInterval, KeyTimezone,
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// getString resolves a key: environment first, then config store, then fallback.
func (s *SettingsService) getString(key, fallback string) string {
	for env, k := range envOverrides {
		if k != key {
			continue
		}
		if v, ok := s.lookupEnv(env); ok && v != "" {
			return v
		}
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}
