// Package connectors holds the adapters that talk to chat platforms.
// A connector turns platform events and history pages into
// domain.RawMessage values and hands them to the index service.
//
// The discord package is the only connector today.
package connectors
