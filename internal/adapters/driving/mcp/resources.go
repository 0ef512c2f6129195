package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for palomar resources.
	uriScheme  = "palomar://"
	birdsURI   = uriScheme + "birds"
	birdPrefix = birdsURI + "/"
	jsonMIME   = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         birdsURI,
		Name:        "birds",
		Description: "Every bird in the merged catalogue",
		MIMEType:    jsonMIME,
	}, s.handleBirdsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: birdPrefix + "{id}",
		Name:        "bird",
		Description: "One bird with its family links and photos",
		MIMEType:    jsonMIME,
	}, s.handleBirdResource)
}

func (s *Server) handleBirdsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	birds, err := s.ports.Catalog.Birds(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing birds: %w", err)
	}
	return jsonResult(req.Params.URI, toBirdOutputs(birds))
}

func (s *Server) handleBirdResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractBirdID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	detail, err := s.ports.Catalog.Detail(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting bird: %w", err)
	}
	return jsonResult(req.Params.URI, toDetailOutput(detail))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		}},
	}, nil
}

// extractBirdID extracts the identifier from a URI like palomar://birds/{id}.
// The identifier may be percent-encoded.
func extractBirdID(uri string) string {
	if !strings.HasPrefix(uri, birdPrefix) {
		return ""
	}
	raw := strings.TrimPrefix(uri, birdPrefix)
	if raw == "" || strings.Contains(raw, "/") {
		return ""
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return id
}
