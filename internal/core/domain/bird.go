package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// UnnamedBird is the display name given to rows with a blank name.
const UnnamedBird = "Sin nombre"

// IdentifierPlaceholder replaces an empty slug when synthesising an identifier.
const IdentifierPlaceholder = "paloma"

// Bird is one catalogued bird as read from the sheet or the local overlay.
// Optional fields are nil when the source cell was blank.
type Bird struct {
	// Identifier is the primary key (ring number). Never empty.
	Identifier string `json:"numero"`

	// DisplayName is the bird's name. Defaults to UnnamedBird.
	DisplayName string `json:"nombre"`

	// Color is the plumage colour.
	Color *string `json:"color,omitempty"`

	// Phenotype is the breed or phenotype.
	Phenotype *string `json:"fenotipo,omitempty"`

	// Sex is free text (usually macho or hembra).
	Sex *string `json:"sexo,omitempty"`

	// Description is free-form notes.
	Description *string `json:"descripcion,omitempty"`

	// Father references another bird by identifier or name.
	Father *string `json:"padre,omitempty"`

	// Mother references another bird by identifier or name.
	Mother *string `json:"madre,omitempty"`

	// Partner references another bird by identifier or name.
	Partner *string `json:"pareja,omitempty"`

	// BirthDate is the unparsed birth date text.
	BirthDate *string `json:"fechaNacimiento,omitempty"`

	// ArrivalDate is the unparsed arrival date text.
	ArrivalDate *string `json:"fechaLlegada,omitempty"`

	// Kind is how the bird joined the loft (Local, Rescatada, Comprada).
	Kind *string `json:"tipo,omitempty"`

	// Status is the bird's current status (en palomar, desaparecida, fallecida).
	Status *string `json:"estado,omitempty"`

	// Photo is an http or https image URL.
	Photo *string `json:"foto,omitempty"`
}

// NormalizeIdentifier returns the comparison form of an identifier.
func NormalizeIdentifier(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// SameIdentifier reports whether two identifiers denote the same bird.
func SameIdentifier(a, b string) bool {
	return NormalizeIdentifier(a) == NormalizeIdentifier(b)
}

// Key returns the normalised identifier used for merging and lookup.
func (b Bird) Key() string {
	return NormalizeIdentifier(b.Identifier)
}

// Apply returns a copy of b with every field present in patch written over it.
// Absent optional fields and blank required fields in patch leave b untouched.
func (b Bird) Apply(patch Bird) Bird {
	out := b
	if strings.TrimSpace(patch.Identifier) != "" {
		out.Identifier = patch.Identifier
	}
	if strings.TrimSpace(patch.DisplayName) != "" {
		out.DisplayName = patch.DisplayName
	}
	for _, f := range optionalFields {
		if v := *f.ptr(&patch); v != nil {
			*f.ptr(&out) = v
		}
	}
	return out
}

// Value returns the value of the field with the given JSON key.
// The boolean is false when the field is absent or unknown.
func (b Bird) Value(key string) (string, bool) {
	switch key {
	case FieldIdentifier:
		return b.Identifier, true
	case FieldDisplayName:
		return b.DisplayName, true
	}
	for _, f := range optionalFields {
		if f.key == key {
			if v := *f.ptr(&b); v != nil {
				return *v, true
			}
			return "", false
		}
	}
	return "", false
}

// Set assigns the field with the given JSON key. Blank values clear optional fields.
func (b *Bird) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case FieldIdentifier:
		b.Identifier = value
		return nil
	case FieldDisplayName:
		b.DisplayName = value
		return nil
	}
	for _, f := range optionalFields {
		if f.key == key {
			*f.ptr(b) = Optional(value)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, key)
}

// Reference returns the raw reference text held in the given field.
func (b Bird) Reference(field RefField) string {
	var v *string
	switch field {
	case RefFather:
		v = b.Father
	case RefMother:
		v = b.Mother
	case RefPartner:
		v = b.Partner
	}
	if v == nil {
		return ""
	}
	return *v
}

// Date returns the raw date text held in the given field.
func (b Bird) Date(field DateField) string {
	var v *string
	switch field {
	case DateFieldBirth:
		v = b.BirthDate
	case DateFieldArrival:
		v = b.ArrivalDate
	}
	if v == nil {
		return ""
	}
	return *v
}

// Validate checks the fields required to save a bird from a form.
func (b Bird) Validate() error {
	var errs []error
	if strings.TrimSpace(b.DisplayName) == "" {
		errs = append(errs, errors.New("nombre: Nombre requerido"))
	}
	if strings.TrimSpace(b.Identifier) == "" {
		errs = append(errs, errors.New("numero: Numero requerido"))
	}
	if b.Photo != nil && !IsHTTPURL(*b.Photo) {
		errs = append(errs, errors.New("foto: Foto debe ser URL valida"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Optional returns nil for blank text and a pointer to the trimmed text otherwise.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// RefField selects one of the reference fields.
type RefField string

// Reference fields.
const (
	RefFather  RefField = "padre"
	RefMother  RefField = "madre"
	RefPartner RefField = "pareja"
)

// JSON keys of every Bird field.
const (
	FieldIdentifier  = "numero"
	FieldDisplayName = "nombre"
	FieldColor       = "color"
	FieldPhenotype   = "fenotipo"
	FieldSex         = "sexo"
	FieldDescription = "descripcion"
	FieldFather      = "padre"
	FieldMother      = "madre"
	FieldPartner     = "pareja"
	FieldBirthDate   = "fechaNacimiento"
	FieldArrivalDate = "fechaLlegada"
	FieldKind        = "tipo"
	FieldStatus      = "estado"
	FieldPhoto       = "foto"
)

// FieldOrder is the display order of fields on a detail page.
var FieldOrder = []string{
	FieldDisplayName, FieldIdentifier, FieldColor, FieldPhenotype, FieldSex,
	FieldDescription, FieldFather, FieldMother, FieldPartner, FieldBirthDate,
	FieldArrivalDate, FieldKind, FieldStatus, FieldPhoto,
}

// FieldLabels maps field keys to their display labels.
var FieldLabels = map[string]string{
	FieldDisplayName: "Nombre",
	FieldIdentifier:  "Numero",
	FieldColor:       "Color",
	FieldPhenotype:   "Fenotipo",
	FieldSex:         "Sexo",
	FieldDescription: "Descripcion",
	FieldFather:      "Padre",
	FieldMother:      "Madre",
	FieldPartner:     "Pareja",
	FieldBirthDate:   "Fecha de nacimiento",
	FieldArrivalDate: "Fecha de llegada",
	FieldKind:        "Tipo",
	FieldStatus:      "Estado",
	FieldPhoto:       "Foto",
}

// Statuses are the known values of the Estado column.
var Statuses = []string{"en palomar", "desaparecida", "fallecida"}

// Kinds are the known values of the Tipo column.
var Kinds = []string{"Local", "Rescatada", "Comprada"}

type optionalField struct {
	key string
	ptr func(*Bird) **string
}

var optionalFields = []optionalField{
	{FieldColor, func(b *Bird) **string { return &b.Color }},
	{FieldPhenotype, func(b *Bird) **string { return &b.Phenotype }},
	{FieldSex, func(b *Bird) **string { return &b.Sex }},
	{FieldDescription, func(b *Bird) **string { return &b.Description }},
	{FieldFather, func(b *Bird) **string { return &b.Father }},
	{FieldMother, func(b *Bird) **string { return &b.Mother }},
	{FieldPartner, func(b *Bird) **string { return &b.Partner }},
	{FieldBirthDate, func(b *Bird) **string { return &b.BirthDate }},
	{FieldArrivalDate, func(b *Bird) **string { return &b.ArrivalDate }},
	{FieldKind, func(b *Bird) **string { return &b.Kind }},
	{FieldStatus, func(b *Bird) **string { return &b.Status }},
	{FieldPhoto, func(b *Bird) **string { return &b.Photo }},
}
