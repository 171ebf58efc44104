package driving

import (
	"context"

	"github.com/conversate-labs/conversate/internal/core/ports/driven"
)

// Assistant runs a voice conversation over an opaque speech session:
// greet, then answer each committed utterance until the session ends.
type Assistant interface {
	// Run drives the session to completion. It returns when the session
	// closes or ctx is cancelled. A single failed answer is spoken as an
	// apology, never allowed to end the conversation.
	Run(ctx context.Context, session driven.SpeechSession) error
}
