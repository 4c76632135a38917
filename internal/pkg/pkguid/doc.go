// Package pkguid generates the identifiers used across healthmon.
//
// String ids (UUID v7) tag requests and alert events; numeric ids
// (Snowflake) key heart-rate readings so that byte order equals
// insertion order in ordered stores.
package pkguid
