package domain

import (
	"fmt"
	"time"
)

// DateField selects which date column an agenda is built from.
type DateField string

// Agenda date fields.
const (
	// DateFieldArrival groups birds by arrival date (the default view).
	DateFieldArrival DateField = "llegada"

	// DateFieldBirth groups birds by birth date.
	DateFieldBirth DateField = "nacimiento"
)

// ParseDateField converts user input into a DateField.
// Empty input selects DateFieldArrival.
func ParseDateField(s string) (DateField, error) {
	switch DateField(s) {
	case "", DateFieldArrival:
		return DateFieldArrival, nil
	case DateFieldBirth:
		return DateFieldBirth, nil
	default:
		return "", fmt.Errorf("%w: date field %q (want %s or %s)",
			ErrInvalidInput, s, DateFieldArrival, DateFieldBirth)
	}
}

// Label returns the display label of the date field.
func (f DateField) Label() string {
	if f == DateFieldBirth {
		return FieldLabels[FieldBirthDate]
	}
	return FieldLabels[FieldArrivalDate]
}

// AllYears disables year filtering in an AgendaQuery.
const AllYears = 0

// AgendaGroup holds the birds sharing one calendar date.
type AgendaGroup struct {
	// Key is the date in YYYY-MM-DD form.
	Key string `json:"key"`

	// Date is the parsed date of the first member.
	Date time.Time `json:"date"`

	// Birds are the members in catalogue order.
	Birds []Bird `json:"birds"`
}

// Year returns the calendar year of the group.
func (g AgendaGroup) Year() int {
	return g.Date.Year()
}

// AgendaQuery selects an agenda view.
type AgendaQuery struct {
	// Field is the date column to group by.
	Field DateField

	// Year keeps only groups of this year. AllYears keeps every group.
	Year int
}

// Agenda is a date-grouped view of the catalogue.
type Agenda struct {
	// Field is the date column the agenda was built from.
	Field DateField `json:"field"`

	// Groups are sorted ascending by Key.
	Groups []AgendaGroup `json:"groups"`

	// Years lists every year present before filtering, most recent first.
	Years []int `json:"years"`
}

// AgendaLink points at one date of an agenda.
type AgendaLink struct {
	Field DateField `json:"field"`
	Key   string    `json:"key"`
}
