package services

import (
	"sort"
	"time"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/dates"
)

// BuildAgenda groups birds by the calendar day of a date field.
// Birds whose date is absent or unparseable are left out. Groups are sorted
// ascending by key and keep members in input order.
func BuildAgenda(birds []domain.Bird, field domain.DateField, loc *time.Location) []domain.AgendaGroup {
	index := make(map[string]int)
	groups := []domain.AgendaGroup{}

	for _, b := range birds {
		t, ok := dates.Parse(b.Date(field), loc)
		if !ok {
			continue
		}
		key := dates.Key(t)
		if i, seen := index[key]; seen {
			groups[i].Birds = append(groups[i].Birds, b)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, domain.AgendaGroup{Key: key, Date: t, Birds: []domain.Bird{b}})
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// AgendaYears returns the distinct years of groups, most recent first.
func AgendaYears(groups []domain.AgendaGroup) []int {
	seen := make(map[int]bool)
	years := []int{}
	for _, g := range groups {
		if y := g.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// FilterAgendaYear keeps the groups of one year. domain.AllYears keeps all.
func FilterAgendaYear(groups []domain.AgendaGroup, year int) []domain.AgendaGroup {
	if year == domain.AllYears {
		return groups
	}
	out := []domain.AgendaGroup{}
	for _, g := range groups {
		if g.Year() == year {
			out = append(out, g)
		}
	}
	return out
}

// AgendaLinks returns the agenda dates a bird appears under.
func AgendaLinks(b domain.Bird, loc *time.Location) []domain.AgendaLink {
	var links []domain.AgendaLink
	for _, field := range []domain.DateField{domain.DateFieldArrival, domain.DateFieldBirth} {
		if t, ok := dates.Parse(b.Date(field), loc); ok {
			links = append(links, domain.AgendaLink{Field: field, Key: dates.Key(t)})
		}
	}
	return links
}

// FilterBirds returns the birds that pass filter, in order.
func FilterBirds(birds []domain.Bird, filter domain.ListFilter) []domain.Bird {
	out := make([]domain.Bird, 0, len(birds))
	for _, b := range birds {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
