package services

import (
	"context"
	"strings"
	"time"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/logger"
)

// Ensure Knowledge implements the interface.
var _ driving.KnowledgeService = (*Knowledge)(nil)

// Query defaults.
const (
	DefaultTopK         = 3
	DefaultQueryTimeout = 10 * time.Second
)

// User-facing messages for non-success outcomes.
const (
	msgTimeout  = "Query timed out. Please try a more specific question."
	msgNotFound = "I couldn't find specific information about that topic in our knowledge base."
	msgError    = "I'm having trouble accessing the knowledge base right now. Please try again."
)

// Retriever returns the k nearest chunks to a query within a domain.
// IndexService satisfies this.
type Retriever interface {
	Retrieve(ctx context.Context, dom, query string, k int) ([]driven.VectorHit, error)
}

// Knowledge answers natural-language questions from a domain's index.
// Every query is bounded by a timeout and produces a total Answer:
// timeouts, backend failures and empty results all map to an outcome
// instead of an error.
type Knowledge struct {
	retriever   Retriever
	completer   driven.CompletionService
	temperature float64
	defaults    driving.QueryOptions
}

// NewKnowledge creates a new knowledge query service. defaults fill in
// unset per-query options; zero-value defaults fall back to the
// package constants.
func NewKnowledge(retriever Retriever, completer driven.CompletionService, temperature float64, defaults driving.QueryOptions) *Knowledge {
	if defaults.TopK <= 0 {
		defaults.TopK = DefaultTopK
	}
	if defaults.Timeout <= 0 {
		defaults.Timeout = DefaultQueryTimeout
	}
	return &Knowledge{
		retriever:   retriever,
		completer:   completer,
		temperature: temperature,
		defaults:    defaults,
	}
}

// Answer retrieves the nearest chunks for query and synthesises a
// spoken-style answer with source attributions.
func (k *Knowledge) Answer(ctx context.Context, dom, query string, opts driving.QueryOptions) domain.Answer {
	if opts.TopK <= 0 {
		opts.TopK = k.defaults.TopK
	}
	if opts.Timeout <= 0 {
		opts.Timeout = k.defaults.Timeout
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{Status: domain.AnswerNotFound, Message: msgNotFound}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	done := make(chan domain.Answer, 1)
	go func() {
		done <- k.answer(ctx, dom, query, opts)
	}()

	select {
	case answer := <-done:
		return answer
	case <-ctx.Done():
		logger.Warn("query in %s hit %s limit: %q", dom, opts.Timeout, query)
		return domain.Answer{Status: domain.AnswerError, Message: msgTimeout}
	}
}

// answer is the unbounded query path; Answer wraps it in the timeout.
func (k *Knowledge) answer(ctx context.Context, dom, query string, opts driving.QueryOptions) domain.Answer {
	hits, err := k.retriever.Retrieve(ctx, dom, query, opts.TopK)
	if err != nil {
		logger.Warn("retrieval failed in %s: %v", dom, err)
		return domain.Answer{Status: domain.AnswerError, Message: msgError}
	}
	if len(hits) == 0 {
		return domain.Answer{Status: domain.AnswerNotFound, Message: msgNotFound}
	}

	contextText := buildContext(hits)
	text, err := k.completer.Complete(ctx, contextText, query, driven.CompleteOptions{
		Temperature: k.temperature,
	})
	if err != nil {
		logger.Warn("completion failed in %s: %v", dom, err)
		return domain.Answer{Status: domain.AnswerError, Message: msgError}
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "empty response") {
		return domain.Answer{Status: domain.AnswerNotFound, Message: msgNotFound}
	}

	return domain.Answer{
		Status:  domain.AnswerSuccess,
		Text:    text,
		Sources: collectSources(hits),
	}
}

// buildContext concatenates retrieved chunk contents for the prompt.
func buildContext(hits []driven.VectorHit) string {
	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = hit.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// collectSources returns the de-duplicated originating file names in
// retrieval order.
func collectSources(hits []driven.VectorHit) []string {
	seen := make(map[string]struct{}, len(hits))
	var sources []string
	for _, hit := range hits {
		name := hit.Chunk.FileName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}
	return sources
}
