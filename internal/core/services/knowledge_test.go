package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
)

func TestAnswerSuccessWithDeduplicatedSources(t *testing.T) {
	retriever := &mockRetriever{hits: hits(
		hitFor("Wheat is planted in October.", "crops.txt", 0.9),
		hitFor("Use DAP fertilizer at planting.", "crops.txt", 0.8),
		hitFor("Rabi season runs October to March.", "seasons.txt", 0.7),
	)}
	completer := &mockCompleter{response: "Wheat is planted in October, at the start of the rabi season."}
	k := NewKnowledge(retriever, completer, 0.1, driving.QueryOptions{})

	answer := k.Answer(context.Background(), "agriculture", "when is wheat planted", driving.QueryOptions{})

	assert.Equal(t, domain.AnswerSuccess, answer.Status)
	assert.Equal(t, "Wheat is planted in October, at the start of the rabi season.", answer.Text)
	assert.Equal(t, []string{"crops.txt", "seasons.txt"}, answer.Sources)
	assert.Empty(t, answer.Message)
}

func TestAnswerPassesRetrievedContextToCompletion(t *testing.T) {
	retriever := &mockRetriever{hits: hits(
		hitFor("Wheat is planted in October.", "crops.txt", 0.9),
	)}
	completer := &mockCompleter{response: "October."}
	k := NewKnowledge(retriever, completer, 0, driving.QueryOptions{})

	k.Answer(context.Background(), "agriculture", "when is wheat planted", driving.QueryOptions{})

	assert.Contains(t, completer.lastContext, "Wheat is planted in October.")
	assert.Equal(t, "when is wheat planted", completer.lastQuery)
}

func TestAnswerDefaultTopK(t *testing.T) {
	retriever := &mockRetriever{}
	k := NewKnowledge(retriever, &mockCompleter{}, 0, driving.QueryOptions{})

	k.Answer(context.Background(), "agriculture", "anything", driving.QueryOptions{})
	assert.Equal(t, DefaultTopK, retriever.lastK)

	k.Answer(context.Background(), "agriculture", "anything", driving.QueryOptions{TopK: 7})
	assert.Equal(t, 7, retriever.lastK)
}

func TestAnswerConfiguredDefaults(t *testing.T) {
	retriever := &mockRetriever{}
	k := NewKnowledge(retriever, &mockCompleter{}, 0, driving.QueryOptions{TopK: 5})

	k.Answer(context.Background(), "agriculture", "anything", driving.QueryOptions{})
	assert.Equal(t, 5, retriever.lastK)
}

func TestAnswerNotFoundWhenNoHits(t *testing.T) {
	k := NewKnowledge(&mockRetriever{}, &mockCompleter{response: "ignored"}, 0, driving.QueryOptions{})

	answer := k.Answer(context.Background(), "agriculture", "something obscure", driving.QueryOptions{})

	assert.Equal(t, domain.AnswerNotFound, answer.Status)
	assert.Equal(t, msgNotFound, answer.Message)
	assert.Empty(t, answer.Text)
}

func TestAnswerNotFoundOnEmptyCompletion(t *testing.T) {
	retriever := &mockRetriever{hits: hits(
		hitFor("Unrelated content.", "misc.txt", 0.2),
	)}
	k := NewKnowledge(retriever, &mockCompleter{response: "  "}, 0, driving.QueryOptions{})

	answer := k.Answer(context.Background(), "agriculture", "when is wheat planted", driving.QueryOptions{})

	assert.Equal(t, domain.AnswerNotFound, answer.Status)
	assert.Equal(t, msgNotFound, answer.Message)
}

func TestAnswerErrorOnRetrievalFailure(t *testing.T) {
	k := NewKnowledge(&mockRetriever{err: assert.AnError}, &mockCompleter{}, 0, driving.QueryOptions{})

	answer := k.Answer(context.Background(), "agriculture", "anything", driving.QueryOptions{})

	assert.Equal(t, domain.AnswerError, answer.Status)
	assert.Equal(t, msgError, answer.Message)
}

func TestAnswerErrorOnCompletionFailure(t *testing.T) {
	retriever := &mockRetriever{hits: hits(
		hitFor("Wheat facts.", "crops.txt", 0.9),
	)}
	k := NewKnowledge(retriever, &mockCompleter{err: assert.AnError}, 0, driving.QueryOptions{})

	answer := k.Answer(context.Background(), "agriculture", "anything", driving.QueryOptions{})

	assert.Equal(t, domain.AnswerError, answer.Status)
}

func TestAnswerTimeoutOnHangingCompletion(t *testing.T) {
	retriever := &mockRetriever{hits: hits(
		hitFor("Wheat facts.", "crops.txt", 0.9),
	)}
	k := NewKnowledge(retriever, &mockCompleter{hang: true}, 0, driving.QueryOptions{})

	start := time.Now()
	answer := k.Answer(context.Background(), "agriculture", "anything", driving.QueryOptions{
		Timeout: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	assert.Equal(t, domain.AnswerError, answer.Status)
	assert.Equal(t, msgTimeout, answer.Message)
	require.Less(t, elapsed, time.Second, "timeout must bound the call")
}

func TestAnswerEmptyQuery(t *testing.T) {
	k := NewKnowledge(&mockRetriever{}, &mockCompleter{}, 0, driving.QueryOptions{})

	answer := k.Answer(context.Background(), "agriculture", "   ", driving.QueryOptions{})

	assert.Equal(t, domain.AnswerNotFound, answer.Status)
}
