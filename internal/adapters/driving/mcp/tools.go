package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// ListBirdsInput is the input schema for the list_birds tool.
type ListBirdsInput struct {
	Search string `json:"search,omitempty" jsonschema:"case-insensitive substring of the name or identifier"`
	Estado string `json:"estado,omitempty" jsonschema:"exact status: en palomar, desaparecida or fallecida"`
	Tipo   string `json:"tipo,omitempty" jsonschema:"exact kind, e.g. Local"`
	Sexo   string `json:"sexo,omitempty" jsonschema:"exact sex"`
}

// ListBirdsOutput is the output schema for the list_birds tool.
type ListBirdsOutput struct {
	Birds []BirdOutput `json:"birds"`
	Count int          `json:"count"`
}

// GetBirdInput is the input schema for the get_bird tool.
type GetBirdInput struct {
	Numero string `json:"numero" jsonschema:"the bird identifier (Numero), case-insensitive"`
}

// ResolveInput is the input schema for the resolve_reference tool.
type ResolveInput struct {
	Reference string `json:"reference" jsonschema:"a Padre, Madre or Pareja value: an identifier or a display name"`
}

// ResolveOutput is the output schema for the resolve_reference tool.
type ResolveOutput struct {
	Found bool        `json:"found"`
	Bird  *BirdOutput `json:"bird,omitempty"`
}

// AgendaInput is the input schema for the agenda tool.
type AgendaInput struct {
	Field string `json:"field,omitempty" jsonschema:"llegada (default) or nacimiento"`
	Year  int    `json:"year,omitempty" jsonschema:"only dates in this year; 0 for all"`
}

// AgendaOutput is the output schema for the agenda tool.
type AgendaOutput struct {
	Field  string              `json:"field"`
	Groups []AgendaGroupOutput `json:"groups"`
	Years  []int               `json:"years"`
}

// RefreshInput is the input schema for the refresh tool.
type RefreshInput struct{}

// RefreshOutput is the output schema for the refresh tool.
type RefreshOutput struct {
	Origin  string `json:"origin"`
	Records int    `json:"records"`
	Stale   bool   `json:"stale"`
	Cause   string `json:"cause,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_birds",
		Description: "List birds in the loft catalogue, optionally filtered",
	}, s.handleListBirds)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_bird",
		Description: "Get one bird with its parents, partner, offspring, photos and agenda dates",
	}, s.handleGetBird)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_reference",
		Description: "Resolve a family reference to a bird, by identifier first and then by name",
	}, s.handleResolve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agenda",
		Description: "Group birds by arrival or birth date, most recent first",
	}, s.handleAgenda)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh",
		Description: "Re-fetch the catalogue sheet, falling back to the stored snapshot",
	}, s.handleRefresh)
}

func (s *Server) handleListBirds(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListBirdsInput,
) (*mcp.CallToolResult, ListBirdsOutput, error) {
	birds, err := s.ports.Catalog.List(ctx, domain.ListFilter{
		Search: input.Search,
		Status: input.Estado,
		Kind:   input.Tipo,
		Sex:    input.Sexo,
	})
	if err != nil {
		return nil, ListBirdsOutput{}, err
	}
	return nil, ListBirdsOutput{Birds: toBirdOutputs(birds), Count: len(birds)}, nil
}

func (s *Server) handleGetBird(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetBirdInput,
) (*mcp.CallToolResult, DetailOutput, error) {
	if input.Numero == "" {
		return nil, DetailOutput{}, fmt.Errorf("%w: numero is required", domain.ErrInvalidInput)
	}
	detail, err := s.ports.Catalog.Detail(ctx, input.Numero)
	if err != nil {
		return nil, DetailOutput{}, err
	}
	return nil, toDetailOutput(detail), nil
}

func (s *Server) handleResolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (*mcp.CallToolResult, ResolveOutput, error) {
	b, ok, err := s.ports.Catalog.Resolve(ctx, input.Reference)
	if err != nil {
		return nil, ResolveOutput{}, err
	}
	if !ok {
		return nil, ResolveOutput{}, nil
	}
	out := toBirdOutput(b)
	return nil, ResolveOutput{Found: true, Bird: &out}, nil
}

func (s *Server) handleAgenda(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AgendaInput,
) (*mcp.CallToolResult, AgendaOutput, error) {
	field, err := domain.ParseDateField(input.Field)
	if err != nil {
		return nil, AgendaOutput{}, err
	}
	agenda, err := s.ports.Catalog.Agenda(ctx, domain.AgendaQuery{Field: field, Year: input.Year})
	if err != nil {
		return nil, AgendaOutput{}, err
	}

	out := AgendaOutput{
		Field:  string(agenda.Field),
		Groups: make([]AgendaGroupOutput, len(agenda.Groups)),
		Years:  agenda.Years,
	}
	if out.Years == nil {
		out.Years = []int{}
	}
	for i, g := range agenda.Groups {
		out.Groups[i] = AgendaGroupOutput{Key: g.Key, Birds: toBirdOutputs(g.Birds)}
	}
	return nil, out, nil
}

func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	res, err := s.ports.Catalog.Refresh(ctx)
	if err != nil {
		var refreshErr *domain.RefreshError
		if errors.As(err, &refreshErr) {
			return nil, RefreshOutput{}, fmt.Errorf("catalogue unavailable: %w", err)
		}
		return nil, RefreshOutput{}, err
	}
	out := RefreshOutput{
		Origin:  string(res.Origin),
		Records: res.Count,
		Stale:   res.Stale(),
	}
	if res.Cause != nil {
		out.Cause = res.Cause.Error()
	}
	return nil, out, nil
}
