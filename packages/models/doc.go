// Package models holds the response and request structures of the demo book
// store API along with explicit decode functions.
//
// Decoding checks required fields and their JSON types before binding, so a
// missing or mistyped field fails with a *DecodeError naming the field rather
// than silently leaving a zero value.
package models
