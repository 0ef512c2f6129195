package domain

import "time"

const unknownDescription = "Unknown"

// Default sheet coordinates of the published catalogue.
const (
	DefaultSheetID   = "1JZcjjdxGi-jUV_eedQebsRWsaVVwQMmyRUPesvIfQ0E"
	DefaultSheetName = "Hoja 1"
)

// SourceKind identifies where the catalogue CSV is fetched from.
type SourceKind string

// Available sources.
const (
	// SourceGViz fetches the published sheet through the visualisation CSV endpoint.
	SourceGViz SourceKind = "gviz"

	// SourceDrive exports the sheet as CSV through the Drive API.
	SourceDrive SourceKind = "drive"

	// SourceFile reads a CSV file from the local filesystem.
	SourceFile SourceKind = "file"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceGViz, SourceDrive, SourceFile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the source.
func (k SourceKind) Description() string {
	switch k {
	case SourceGViz:
		return "Published Google Sheet (CSV endpoint)"
	case SourceDrive:
		return "Google Drive export (API key or token)"
	case SourceFile:
		return "Local CSV file"
	default:
		return unknownDescription
	}
}

// StoreBackend identifies a persistence backend for snapshots and overlays.
type StoreBackend string

// Available storage backends.
const (
	StoreMemory StoreBackend = "memory"
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
	StoreRedis  StoreBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// SourceSettings configures the inbound sheet.
type SourceSettings struct {
	// Kind selects the source implementation.
	Kind SourceKind

	// SheetID is the spreadsheet document ID.
	SheetID string

	// SheetName is the tab to read.
	SheetName string

	// FilePath is the CSV path for SourceFile.
	FilePath string

	// APIKey authorises Drive exports of link-shared sheets.
	APIKey string

	// AccessToken is an OAuth access token for Drive exports of private sheets.
	AccessToken string
}

// StorageSettings configures local persistence.
type StorageSettings struct {
	// Snapshot is the backend of the single snapshot slot.
	Snapshot StoreBackend

	// Overlay is the backend of locally edited records.
	Overlay StoreBackend

	// DataDir holds the snapshot file and the SQLite database.
	// Empty selects ~/.palomar/data.
	DataDir string

	// RedisURL is the connection URL for StoreRedis.
	RedisURL string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Source holds sheet source settings.
	Source SourceSettings

	// Storage holds persistence settings.
	Storage StorageSettings

	// PhotoDir is the root of the local photo library. Empty disables it.
	PhotoDir string

	// RefreshInterval is how often long-running views refresh the catalogue.
	RefreshInterval time.Duration

	// Timezone is the IANA zone dates are interpreted in. Empty means local time.
	Timezone string
}

// Location resolves the configured timezone, falling back to time.Local.
func (s AppSettings) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Source: SourceSettings{
			Kind:      SourceGViz,
			SheetID:   DefaultSheetID,
			SheetName: DefaultSheetName,
		},
		Storage: StorageSettings{
			Snapshot: StoreFile,
			Overlay:  StoreSQLite,
		},
		RefreshInterval: 15 * time.Minute,
	}
}

// AllSourceKinds returns all available source kinds.
func AllSourceKinds() []SourceKind {
	return []SourceKind{SourceGViz, SourceDrive, SourceFile}
}
