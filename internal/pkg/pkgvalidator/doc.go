// Package pkgvalidator wraps go-playground/validator for struct validation.
//
// Field names in reported errors follow the `json` tag of the struct field so
// they match what clients send and receive.
package pkgvalidator
