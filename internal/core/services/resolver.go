package services

import (
	"strings"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// ResolveReference finds the bird a reference field points at.
// An identifier match wins over a display-name match; both compare
// trimmed, lowercased text exactly. The first match in list order is returned.
func ResolveReference(ref string, birds []domain.Bird) (domain.Bird, bool) {
	want := domain.NormalizeIdentifier(ref)
	if want == "" {
		return domain.Bird{}, false
	}

	for _, b := range birds {
		if b.Key() == want {
			return b, true
		}
	}
	for _, b := range birds {
		if strings.ToLower(strings.TrimSpace(b.DisplayName)) == want {
			return b, true
		}
	}
	return domain.Bird{}, false
}

// resolveRelation wraps ResolveReference for one reference field of b.
func resolveRelation(b domain.Bird, field domain.RefField, birds []domain.Bird) domain.Relation {
	raw := b.Reference(field)
	rel := domain.Relation{Raw: raw}
	if target, ok := ResolveReference(raw, birds); ok {
		rel.Bird = &target
	}
	return rel
}

// BuildRelations resolves the family links of b within birds.
// Offspring are the birds whose father or mother resolves to b.
func BuildRelations(b domain.Bird, birds []domain.Bird) domain.Relations {
	rels := domain.Relations{
		Father:  resolveRelation(b, domain.RefFather, birds),
		Mother:  resolveRelation(b, domain.RefMother, birds),
		Partner: resolveRelation(b, domain.RefPartner, birds),
	}

	for _, child := range birds {
		if child.Key() == b.Key() {
			continue
		}
		for _, field := range []domain.RefField{domain.RefFather, domain.RefMother} {
			if parent, ok := ResolveReference(child.Reference(field), birds); ok && parent.Key() == b.Key() {
				rels.Offspring = append(rels.Offspring, child)
				break
			}
		}
	}
	return rels
}
