// Package env loads .env files and resolves settings from the process
// environment.
//
// Values already present in the process environment always win over values
// read from a file, so CI secrets override a developer's local .env.
package env
