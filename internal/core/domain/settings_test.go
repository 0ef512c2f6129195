package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestSourceKind_IsValid tests all valid and invalid source kinds
func TestSourceKind_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		kind     SourceKind
		expected bool
	}{
		{"gviz is valid", SourceGViz, true},
		{"drive is valid", SourceDrive, true},
		{"file is valid", SourceFile, true},
		{"empty string is invalid", SourceKind(""), false},
		{"unknown kind is invalid", SourceKind("ftp"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.IsValid())
		})
	}
}

func TestSourceKind_Description(t *testing.T) {
	for _, k := range AllSourceKinds() {
		assert.NotEqual(t, unknownDescription, k.Description())
	}
	assert.Equal(t, unknownDescription, SourceKind("x").Description())
}

func TestStoreBackend_IsValid(t *testing.T) {
	assert.True(t, StoreRedis.IsValid())
	assert.True(t, StoreMemory.IsValid())
	assert.False(t, StoreBackend("postgres").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, SourceGViz, s.Source.Kind)
	assert.Equal(t, DefaultSheetID, s.Source.SheetID)
	assert.Equal(t, "Hoja 1", s.Source.SheetName)
	assert.Equal(t, StoreFile, s.Storage.Snapshot)
	assert.Equal(t, StoreSQLite, s.Storage.Overlay)
	assert.Equal(t, 15*time.Minute, s.RefreshInterval)
}

func TestAppSettings_Location(t *testing.T) {
	assert.Equal(t, time.Local, AppSettings{}.Location())
	assert.Equal(t, time.Local, AppSettings{Timezone: "Nowhere/Atlantis"}.Location())
	assert.Equal(t, "UTC", AppSettings{Timezone: "UTC"}.Location().String())
}
