// Package pkgroutine runs named background tasks (periodic store maintenance)
// with a concurrency limit, and reports their errors and panics on shutdown.
package pkgroutine
