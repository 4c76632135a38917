// Package pkgrouter wraps httprouter with the application's handler signature
// and middleware.
//
// Handlers return a payload or an error. Payloads are wrapped in a
// {"message","data","meta"} envelope unless they opt out through an
// Enveloped() bool method; errors go through pkgerror to pick the status.
// Every request passes panic recovery, correlation ID propagation and a
// single structured log line in which credentials and heart-rate values are
// masked.
package pkgrouter
