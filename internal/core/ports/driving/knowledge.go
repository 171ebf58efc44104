package driving

import (
	"context"
	"time"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// KnowledgeService answers natural-language questions from a domain's
// document index.
type KnowledgeService interface {
	// Answer retrieves the nearest chunks for query and synthesises an
	// answer with source attributions. Every call returns a total
	// Answer; failures surface as AnswerError, never as a panic or an
	// error that crashes the surrounding conversation.
	Answer(ctx context.Context, dom, query string, opts QueryOptions) domain.Answer
}

// QueryOptions tunes a knowledge query.
type QueryOptions struct {
	// TopK is the number of chunks to retrieve (default 3).
	TopK int

	// Timeout bounds retrieval plus synthesis (default 10s).
	Timeout time.Duration
}
