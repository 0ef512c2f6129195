// Package mcp provides an MCP (Model Context Protocol) server adapter for palomar.
// It lets AI assistants browse the loft catalogue, resolve family links and
// read the arrival and birth agenda.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalogue service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
