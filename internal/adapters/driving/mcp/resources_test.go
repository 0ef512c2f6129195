package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

func TestExtractBirdID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid bird URI", "palomar://birds/p-123", "p-123"},
		{"escaped identifier", "palomar://birds/ES%202021%2F7", "ES 2021/7"},
		{"invalid prefix", "file://birds/p-123", ""},
		{"collection URI", "palomar://birds", ""},
		{"empty id", "palomar://birds/", ""},
		{"nested path", "palomar://birds/p1/photos", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractBirdID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleBirdsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns merged birds", func(t *testing.T) {
		server := newTestServer(t, &mockCatalogService{birds: []domain.Bird{
			{Identifier: "p1", DisplayName: "Luna"},
			{Identifier: "p2", DisplayName: "Sol"},
		}})

		result, err := server.handleBirdsResource(ctx, makeReadResourceRequest("palomar://birds"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var birds []BirdOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &birds))
		assert.Len(t, birds, 2)
		assert.Equal(t, "Sol", birds[1].Nombre)
	})

	t.Run("empty catalogue is an empty array", func(t *testing.T) {
		server := newTestServer(t, &mockCatalogService{})
		result, err := server.handleBirdsResource(ctx, makeReadResourceRequest("palomar://birds"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("propagates errors", func(t *testing.T) {
		server := newTestServer(t, &mockCatalogService{err: errors.New("offline")})
		_, err := server.handleBirdsResource(ctx, makeReadResourceRequest("palomar://birds"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "offline")
	})
}

func TestServer_handleBirdResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockCatalogService{detail: domain.BirdDetail{
		Bird:   domain.Bird{Identifier: "p1", DisplayName: "Luna"},
		Photos: []string{"https://example.com/luna.jpg"},
	}})

	result, err := server.handleBirdResource(ctx, makeReadResourceRequest("palomar://birds/p1"))
	require.NoError(t, err)

	var detail DetailOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &detail))
	assert.Equal(t, "Luna", detail.Bird.Nombre)
	assert.Equal(t, []string{"https://example.com/luna.jpg"}, detail.Photos)

	_, err = server.handleBirdResource(ctx, makeReadResourceRequest("palomar://birds/zz"))
	assert.Error(t, err)

	_, err = server.handleBirdResource(ctx, makeReadResourceRequest("palomar://other"))
	assert.Error(t, err)
}
