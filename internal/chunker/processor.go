// Package chunker splits documents into fixed-size text segments for
// embedding. Chunk size is measured in tokens, approximated by
// whitespace-delimited words.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// DefaultChunkSize is the default number of tokens per chunk.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default number of overlapping tokens.
const DefaultChunkOverlap = 64

// Processor splits document content into fixed-size chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokens.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Split divides the document content into chunks. Each chunk records
// the originating file name in its metadata for source attribution.
// Empty content produces no chunks.
func (p *Processor) Split(doc *domain.Document) []domain.Chunk {
	words := strings.Fields(doc.Content)
	if len(words) == 0 {
		return nil
	}

	step := p.chunkSize - p.overlap
	estimated := (len(words) / step) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	for start := 0; start < len(words); start += step {
		end := start + p.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    strings.Join(words[start:end], " "),
			Position:   position,
			Metadata: map[string]any{
				"file_name": doc.FileName,
			},
		})
		position++

		if end == len(words) {
			break
		}
	}

	return chunks
}
