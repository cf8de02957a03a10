// Package domain defines the core business entities for sercha-discord.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawMessage: A chat message as delivered by the chat platform
//   - MediaCategory: The kinds of media a message can carry
//   - Schema: The immutable field table a search index is opened with
//   - MessageSchema: The message schema and its field handles
//   - Document: One record conforming to a Schema
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
