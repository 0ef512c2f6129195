// Package connectors holds the sheet sources the catalogue is fetched from,
// and the plumbing they share: rate limiting and HTTP status errors.
//
// Each source lives in its own package and implements driven.SheetSource:
//
//   - gviz: the public Google visualisation CSV endpoint
//   - google/drive: Drive API export of the spreadsheet as CSV
//   - filesystem: a CSV file on disk, with change notifications
package connectors
