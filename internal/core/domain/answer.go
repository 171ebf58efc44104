package domain

// AnswerStatus is the total outcome of a knowledge query.
// Every query produces exactly one of these; failures never escape as
// panics or unhandled errors to the conversation flow.
type AnswerStatus string

const (
	// AnswerSuccess means the query produced a non-empty answer.
	AnswerSuccess AnswerStatus = "success"

	// AnswerNotFound means retrieval worked but synthesis produced
	// nothing relevant.
	AnswerNotFound AnswerStatus = "not_found"

	// AnswerError means the index was unavailable, a backend failed,
	// or the query timed out.
	AnswerError AnswerStatus = "error"
)

// Answer is the result of a knowledge-base query.
type Answer struct {
	// Status is the outcome.
	Status AnswerStatus `json:"status"`

	// Text is the synthesised answer, set on success.
	Text string `json:"answer,omitempty"`

	// Sources are the de-duplicated originating file names used as
	// evidence, set on success.
	Sources []string `json:"sources,omitempty"`

	// Message is a user-facing explanation for not_found and error.
	Message string `json:"message,omitempty"`
}
