// Package tui provides an interactive terminal user interface for palomar.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"time"

	"github.com/custodia-labs/palomar/internal/core/ports/driving"
)

// DefaultReloadInterval is how often the list re-reads the merged catalogue.
const DefaultReloadInterval = 30 * time.Second

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Catalog serves the merged catalogue.
	Catalog driving.CatalogService

	// ReloadInterval re-reads the catalogue so background refreshes show up.
	// Zero uses DefaultReloadInterval; negative disables reloading.
	ReloadInterval time.Duration
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(catalog driving.CatalogService) *Ports {
	return &Ports{Catalog: catalog}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}

// reloadInterval resolves the configured interval.
func (p *Ports) reloadInterval() time.Duration {
	if p.ReloadInterval == 0 {
		return DefaultReloadInterval
	}
	return p.ReloadInterval
}
