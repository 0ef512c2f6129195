package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/adapters/driving/cli"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aves.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nombre,Numero\nLuna,p1\nSol,p2\n"), 0o600))
	return path
}

func TestBuildServices_FileSource(t *testing.T) {
	t.Setenv("PALOMAR_SOURCE", string(domain.SourceFile))
	t.Setenv("PALOMAR_SHEET_FILE", writeSheet(t))
	configDir := t.TempDir()

	s, err := buildServices(context.Background(), cli.Options{ConfigDir: configDir})
	require.NoError(t, err)
	require.NoError(t, s.CatalogErr)
	require.NotNil(t, s.Catalog)
	require.NotNil(t, s.Settings)
	require.NotNil(t, s.Close)
	defer func() { assert.NoError(t, s.Close()) }()

	assert.NotNil(t, s.Scheduler)
	assert.NotNil(t, s.Metrics)
	assert.NotNil(t, s.Watcher, "csv files can be watched")

	res, err := s.Catalog.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OriginNetwork, res.Origin)
	assert.Equal(t, 2, res.Count)

	assert.FileExists(t, filepath.Join(configDir, "data", "palomar.db"))
}

func TestBuildServices_Ephemeral(t *testing.T) {
	t.Setenv("PALOMAR_SOURCE", string(domain.SourceFile))
	t.Setenv("PALOMAR_SHEET_FILE", writeSheet(t))
	configDir := t.TempDir()

	s, err := buildServices(context.Background(), cli.Options{ConfigDir: configDir, Ephemeral: true})
	require.NoError(t, err)
	require.NotNil(t, s.Catalog)
	defer func() { assert.NoError(t, s.Close()) }()

	_, err = s.Catalog.Upsert(context.Background(), domain.Bird{Identifier: "p9", DisplayName: "Nube"})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(configDir, "data"))
}

func TestBuildServices_BadSourceKeepsSettings(t *testing.T) {
	t.Setenv("PALOMAR_SOURCE", string(domain.SourceFile))
	t.Setenv("PALOMAR_SHEET_FILE", "")

	s, err := buildServices(context.Background(), cli.Options{ConfigDir: t.TempDir()})

	require.NoError(t, err)
	assert.Nil(t, s.Catalog)
	assert.NotNil(t, s.Settings)
	assert.ErrorIs(t, s.CatalogErr, domain.ErrInvalidInput)
	assert.Nil(t, s.Close)
}

func TestOpenStores_Ephemeral(t *testing.T) {
	st, err := openStores(cli.Options{Ephemeral: true}, domain.StorageSettings{Snapshot: domain.StoreRedis})

	require.NoError(t, err)
	assert.NotNil(t, st.snapshots)
	assert.NotNil(t, st.overlay)
	assert.NotNil(t, st.scheduler)
	assert.Empty(t, st.closers)
}

func TestOpenStores_SharedDatabase(t *testing.T) {
	st, err := openStores(cli.Options{}, domain.StorageSettings{
		Snapshot: domain.StoreSQLite,
		Overlay:  domain.StoreSQLite,
		DataDir:  t.TempDir(),
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeAll(st.closers)) }()

	assert.Len(t, st.closers, 1, "one database for both stores")

	ctx := context.Background()
	require.NoError(t, st.snapshots.Save(ctx, []domain.Bird{{Identifier: "p1", DisplayName: "Luna"}}))
	birds, err := st.snapshots.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, birds, 1)
}

func TestOpenStores_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	st, err := openStores(cli.Options{}, domain.StorageSettings{
		Snapshot: domain.StoreRedis,
		Overlay:  domain.StoreMemory,
		RedisURL: "redis://" + mr.Addr(),
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeAll(st.closers)) }()

	ctx := context.Background()
	require.NoError(t, st.snapshots.Save(ctx, []domain.Bird{{Identifier: "p1", DisplayName: "Luna"}}))
	assert.Len(t, mr.Keys(), 1)
}

func TestOpenStores_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.StorageSettings
		want error
	}{
		{
			name: "file overlay",
			cfg:  domain.StorageSettings{Overlay: domain.StoreFile, Snapshot: domain.StoreMemory},
			want: domain.ErrUnsupportedType,
		},
		{
			name: "redis overlay",
			cfg:  domain.StorageSettings{Overlay: domain.StoreRedis, Snapshot: domain.StoreMemory},
			want: domain.ErrUnsupportedType,
		},
		{
			name: "redis without url",
			cfg:  domain.StorageSettings{Overlay: domain.StoreMemory, Snapshot: domain.StoreRedis},
			want: domain.ErrInvalidInput,
		},
		{
			name: "unknown snapshot",
			cfg:  domain.StorageSettings{Overlay: domain.StoreMemory, Snapshot: "s3"},
			want: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := openStores(cli.Options{}, tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := location("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = location("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = location("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseAll(t *testing.T) {
	var order []int
	closers := []func() error{
		func() error { order = append(order, 1); return errors.New("first") },
		func() error { order = append(order, 2); return nil },
		func() error { order = append(order, 3); return errors.New("third") },
	}

	err := closeAll(closers)

	assert.Equal(t, []int{3, 2, 1}, order)
	assert.ErrorContains(t, err, "first")
	assert.ErrorContains(t, err, "third")
	assert.NoError(t, closeAll(nil))
}

func TestBuildServices_InvalidSettings(t *testing.T) {
	t.Setenv("PALOMAR_REFRESH_INTERVAL", "soon")

	s, err := buildServices(context.Background(), cli.Options{ConfigDir: t.TempDir()})

	require.NoError(t, err)
	assert.Nil(t, s.Catalog)
	assert.NotNil(t, s.Settings)
	assert.ErrorIs(t, s.CatalogErr, domain.ErrInvalidInput)
}
