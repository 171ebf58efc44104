package driven

import "context"

// CompletionService synthesises an answer from retrieved context.
//
// Implementations may hang or fail; callers are expected to bound every
// call with a context deadline. The query engine wraps each call in its
// query timeout and never lets a backend failure escape unhandled.
type CompletionService interface {
	// Complete produces an answer to query grounded in contextText.
	// An empty result with a nil error means the model found nothing
	// relevant in the context.
	Complete(ctx context.Context, contextText, query string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures answer synthesis.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
