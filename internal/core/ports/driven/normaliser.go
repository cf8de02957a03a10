package driven

import "github.com/custodia-labs/sercha-discord/internal/core/domain"

// Normaliser transforms a raw chat message into a document conforming
// to the message schema. Implementations are stateless and reentrant.
type Normaliser interface {
	// Schema returns the message schema documents are built against.
	Schema() *domain.MessageSchema

	// Normalise maps one message to one document. It fails only for
	// messages the chat platform delivered malformed.
	Normalise(msg *domain.RawMessage) (*domain.Document, error)
}
