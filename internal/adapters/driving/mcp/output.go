package mcp

import (
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// BirdOutput is the wire form of a bird record.
type BirdOutput struct {
	Numero          string `json:"numero"`
	Nombre          string `json:"nombre"`
	Color           string `json:"color,omitempty"`
	Fenotipo        string `json:"fenotipo,omitempty"`
	Sexo            string `json:"sexo,omitempty"`
	Descripcion     string `json:"descripcion,omitempty"`
	Padre           string `json:"padre,omitempty"`
	Madre           string `json:"madre,omitempty"`
	Pareja          string `json:"pareja,omitempty"`
	FechaNacimiento string `json:"fechaNacimiento,omitempty"`
	FechaLlegada    string `json:"fechaLlegada,omitempty"`
	Tipo            string `json:"tipo,omitempty"`
	Estado          string `json:"estado,omitempty"`
	Foto            string `json:"foto,omitempty"`
}

// RelationOutput is a family link: the raw reference and, when it resolves,
// the identifier and name of the bird it points to.
type RelationOutput struct {
	Raw    string `json:"raw,omitempty"`
	Numero string `json:"numero,omitempty"`
	Nombre string `json:"nombre,omitempty"`
}

// DetailOutput is everything known about one bird.
type DetailOutput struct {
	Bird      BirdOutput     `json:"bird"`
	Father    RelationOutput `json:"father"`
	Mother    RelationOutput `json:"mother"`
	Partner   RelationOutput `json:"partner"`
	Offspring []BirdOutput   `json:"offspring,omitempty"`
	Photos    []string       `json:"photos"`
	Agenda    []AgendaLink   `json:"agenda,omitempty"`
}

// AgendaLink points at the agenda group holding one of the bird's dates.
type AgendaLink struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

// AgendaGroupOutput holds the birds sharing one date key.
type AgendaGroupOutput struct {
	Key   string       `json:"key"`
	Birds []BirdOutput `json:"birds"`
}

func toBirdOutput(b domain.Bird) BirdOutput {
	return BirdOutput{
		Numero:          b.Identifier,
		Nombre:          b.DisplayName,
		Color:           deref(b.Color),
		Fenotipo:        deref(b.Phenotype),
		Sexo:            deref(b.Sex),
		Descripcion:     deref(b.Description),
		Padre:           deref(b.Father),
		Madre:           deref(b.Mother),
		Pareja:          deref(b.Partner),
		FechaNacimiento: deref(b.BirthDate),
		FechaLlegada:    deref(b.ArrivalDate),
		Tipo:            deref(b.Kind),
		Estado:          deref(b.Status),
		Foto:            deref(b.Photo),
	}
}

func toBirdOutputs(birds []domain.Bird) []BirdOutput {
	out := make([]BirdOutput, len(birds))
	for i := range birds {
		out[i] = toBirdOutput(birds[i])
	}
	return out
}

func toRelationOutput(r domain.Relation) RelationOutput {
	out := RelationOutput{Raw: r.Raw}
	if r.Bird != nil {
		out.Numero = r.Bird.Identifier
		out.Nombre = r.Bird.DisplayName
	}
	return out
}

func toDetailOutput(d domain.BirdDetail) DetailOutput {
	out := DetailOutput{
		Bird:    toBirdOutput(d.Bird),
		Father:  toRelationOutput(d.Relations.Father),
		Mother:  toRelationOutput(d.Relations.Mother),
		Partner: toRelationOutput(d.Relations.Partner),
		Photos:  d.Photos,
	}
	if out.Photos == nil {
		out.Photos = []string{}
	}
	if len(d.Relations.Offspring) > 0 {
		out.Offspring = toBirdOutputs(d.Relations.Offspring)
	}
	for _, link := range d.Agenda {
		out.Agenda = append(out.Agenda, AgendaLink{Field: string(link.Field), Key: link.Key})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
