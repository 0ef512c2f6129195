// Package sheet provides a Normaliser for the catalogue spreadsheet exported as CSV.
// It maps the sheet's Spanish column headers onto domain.Bird, trims every cell,
// extracts photo URLs from =IMAGE() formulas and synthesises identifiers for
// rows without one.
package sheet
