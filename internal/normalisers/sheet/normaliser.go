package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Column headers as they appear in the sheet.
const (
	HeaderName        = "Nombre"
	HeaderIdentifier  = "Numero"
	HeaderPhoto       = "Foto"
	HeaderColor       = "Color"
	HeaderPhenotype   = "Fenotipo"
	HeaderSex         = "Sexo"
	HeaderDescription = "Descripcion"
	HeaderFather      = "Padre"
	HeaderMother      = "Madre"
	HeaderPartner     = "Pareja"
	HeaderBirthDate   = "Fecha de nacimiento"
	HeaderArrivalDate = "Fecha de llegada"
	HeaderStatus      = "Estado(en palomar, desaparecida, fallecida)"
)

// KindHeaders are the historical names of the Tipo column, in lookup order.
var KindHeaders = []string{
	"Tipo(Local o rescatada o Comprada)",
	"Tipo(Local o rescatada)",
}

// ParseError reports a structural CSV failure.
type ParseError struct {
	// Line is the 1-based input line of the failure, 0 if unknown.
	Line int

	// Err is the underlying reader error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse sheet: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse sheet: %v", e.Err)
}

// Unwrap exposes the reader error and classifies the failure as domain.ErrParse.
func (e *ParseError) Unwrap() []error {
	return []error{e.Err, domain.ErrParse}
}

// Normaliser handles the catalogue CSV export.
type Normaliser struct{}

// New creates a new sheet normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise parses raw CSV bytes into records.
func (n *Normaliser) Normalise(_ context.Context, raw []byte) ([]domain.Bird, error) {
	return Parse(bytes.NewReader(raw))
}

// ParseString parses CSV text into records.
func ParseString(s string) ([]domain.Bird, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a header row followed by data rows.
// Any structural error fails the whole parse, including a row whose field
// count differs from the header. Bad cell values degrade to absent values.
// Empty lines are skipped; a row of empty cells is still a record.
func Parse(r io.Reader) ([]domain.Bird, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Bird{}, nil
	}
	if err != nil {
		return nil, newParseError(err)
	}
	cols := indexHeader(header)

	birds := []domain.Bird{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(err)
		}
		birds = append(birds, cols.bird(record, len(birds)))
	}
	return birds, nil
}

func newParseError(err error) *ParseError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}

// columns maps header text to record positions.
type columns map[string]int

func indexHeader(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

// cell returns the trimmed value of the named column, or "" when missing.
func (c columns) cell(record []string, header string) string {
	i, ok := c[header]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// first returns the first non-empty value among the named columns.
func (c columns) first(record []string, headers []string) string {
	for _, h := range headers {
		if v := c.cell(record, h); v != "" {
			return v
		}
	}
	return ""
}

func (c columns) optional(record []string, header string) *string {
	return domain.Optional(c.cell(record, header))
}

func (c columns) bird(record []string, row int) domain.Bird {
	name := c.cell(record, HeaderName)
	if name == "" {
		name = domain.UnnamedBird
	}

	id := c.cell(record, HeaderIdentifier)
	if id == "" {
		id = FallbackIdentifier(name, row)
	}

	b := domain.Bird{
		Identifier:  id,
		DisplayName: name,
		Color:       c.optional(record, HeaderColor),
		Phenotype:   c.optional(record, HeaderPhenotype),
		Sex:         c.optional(record, HeaderSex),
		Description: c.optional(record, HeaderDescription),
		Father:      c.optional(record, HeaderFather),
		Mother:      c.optional(record, HeaderMother),
		Partner:     c.optional(record, HeaderPartner),
		BirthDate:   c.optional(record, HeaderBirthDate),
		ArrivalDate: c.optional(record, HeaderArrivalDate),
		Kind:        domain.Optional(c.first(record, KindHeaders)),
		Status:      c.optional(record, HeaderStatus),
	}
	if photo, ok := ExtractImageURL(c.cell(record, HeaderPhoto)); ok {
		b.Photo = &photo
	}
	return b
}
