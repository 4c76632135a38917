// Package pkgconfig reads healthmon configuration.
//
// Values come from built-in defaults, an optional YAML file and HEALTHMON_*
// environment variables, in increasing order of precedence; Set wins over all
// of them. When a file was loaded it is watched, and OnChange listeners run
// after every successful re-read.
package pkgconfig
