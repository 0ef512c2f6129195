package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

func agendaBirds() []domain.Bird {
	return []domain.Bird{
		{Identifier: "p1", DisplayName: "A", ArrivalDate: opt("2023-05-01"), BirthDate: opt("1/2/2021")},
		{Identifier: "p2", DisplayName: "B", ArrivalDate: opt("01/05/2023")},
		{Identifier: "p3", DisplayName: "C", ArrivalDate: opt("2022-12-24T10:00:00Z")},
		{Identifier: "p4", DisplayName: "D", ArrivalDate: opt("pronto")},
		{Identifier: "p5", DisplayName: "E"},
	}
}

func TestBuildAgenda(t *testing.T) {
	groups := BuildAgenda(agendaBirds(), domain.DateFieldArrival, time.UTC)

	require.Len(t, groups, 2)
	assert.Equal(t, "2022-12-24", groups[0].Key)
	assert.Equal(t, "2023-05-01", groups[1].Key)

	require.Len(t, groups[1].Birds, 2)
	assert.Equal(t, "p1", groups[1].Birds[0].Identifier)
	assert.Equal(t, "p2", groups[1].Birds[1].Identifier)
	assert.Equal(t, 2023, groups[1].Year())
}

func TestBuildAgenda_BirthField(t *testing.T) {
	groups := BuildAgenda(agendaBirds(), domain.DateFieldBirth, time.UTC)

	require.Len(t, groups, 1)
	assert.Equal(t, "2021-02-01", groups[0].Key)
}

func TestBuildAgenda_Empty(t *testing.T) {
	groups := BuildAgenda(nil, domain.DateFieldArrival, time.UTC)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestAgendaYearsAndFilter(t *testing.T) {
	groups := BuildAgenda([]domain.Bird{
		{Identifier: "a", ArrivalDate: opt("2020-01-01")},
		{Identifier: "b", ArrivalDate: opt("2023-03-03")},
		{Identifier: "c", ArrivalDate: opt("2020-06-01")},
	}, domain.DateFieldArrival, time.UTC)

	assert.Equal(t, []int{2023, 2020}, AgendaYears(groups))

	only2020 := FilterAgendaYear(groups, 2020)
	require.Len(t, only2020, 2)
	assert.Equal(t, "2020-01-01", only2020[0].Key)

	assert.Len(t, FilterAgendaYear(groups, domain.AllYears), 3)
	assert.Empty(t, FilterAgendaYear(groups, 1999))
}

func TestAgendaLinks(t *testing.T) {
	links := AgendaLinks(agendaBirds()[0], time.UTC)

	assert.Equal(t, []domain.AgendaLink{
		{Field: domain.DateFieldArrival, Key: "2023-05-01"},
		{Field: domain.DateFieldBirth, Key: "2021-02-01"},
	}, links)

	assert.Empty(t, AgendaLinks(domain.Bird{Identifier: "x"}, time.UTC))
}

func TestFilterBirds(t *testing.T) {
	birds := []domain.Bird{
		{Identifier: "p1", DisplayName: "Luna", Sex: opt("hembra")},
		{Identifier: "p2", DisplayName: "Lunar", Sex: opt("macho")},
		{Identifier: "p3", DisplayName: "Sol"},
	}

	got := FilterBirds(birds, domain.ListFilter{Search: "lun"})
	require.Len(t, got, 2)

	got = FilterBirds(birds, domain.ListFilter{Search: "lun", Sex: "macho"})
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].Identifier)

	assert.Len(t, FilterBirds(birds, domain.ListFilter{}), 3)
}
