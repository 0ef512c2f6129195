package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

func TestRefreshCmd_Network(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "refresh")

	require.NoError(t, err)
	assert.Contains(t, out, "Fetched 2 birds from the sheet")
}

func TestRefreshCmd_OfflineCopy(t *testing.T) {
	catalog := newMockCatalog()
	catalog.refresh = domain.RefreshResult{
		Origin: domain.OriginSnapshot,
		Count:  7,
		Cause:  errors.New("status 503"),
	}
	cleanup := setupServices(catalog, newMockSettings())
	defer cleanup()

	out, err := execute(t, "refresh")

	require.NoError(t, err)
	assert.Contains(t, out, "loaded 7 birds from the offline copy")
	assert.Contains(t, out, "Cause: status 503")
}

func TestRefreshCmd_Failure(t *testing.T) {
	catalog := newMockCatalog()
	catalog.refreshErr = &domain.RefreshError{Cause: errors.New("offline"), Fallback: domain.ErrNoSnapshot}
	cleanup := setupServices(catalog, newMockSettings())
	defer cleanup()

	_, err := execute(t, "refresh")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "refresh failed")
}

func TestRefreshCmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "refresh", "extra")

	assert.Error(t, err)
}
