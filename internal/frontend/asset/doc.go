// Package asset resolves files of the pre-built frontend bundle.
//
// Lookups are confined to the bundle root: names are slash-separated,
// cleaned, and rejected when they would escape the root. Directories are
// never listed.
package asset
