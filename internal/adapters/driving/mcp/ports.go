package mcp

import (
	"net/http"

	"github.com/custodia-labs/palomar/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Catalog serves the merged catalogue.
	Catalog driving.CatalogService

	// Metrics is mounted at /metrics in HTTP mode when set.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
