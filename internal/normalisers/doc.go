// Package normalisers provides implementations of the Normaliser interface.
// A normaliser projects a raw chat message onto the flat, typed fields of
// the message schema so the search index can store it.
//
// Normalisers are built once at startup and shared by every event handler.
package normalisers
