// Package google provides shared infrastructure for the Google API sheet source.
//
// It turns the configured credentials into client options and maps Google
// API errors onto the domain errors the catalogue understands.
//
// # Credentials
//
// Either an API key (enough for sheets shared by link) or an OAuth access
// token with the https://www.googleapis.com/auth/drive.readonly scope.
// The token wins when both are set.
package google
