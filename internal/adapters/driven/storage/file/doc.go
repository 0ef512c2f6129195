// Package file stores the catalogue snapshot as a JSON document on disk.
//
// Writes go through a temporary file and a rename, so a reader never sees a
// half-written snapshot and a crash mid-save keeps the previous one.
package file
