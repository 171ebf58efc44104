package cli

import (
	"context"

	"github.com/conversate-labs/conversate/internal/config"
	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
)

// stubKnowledge answers every query the same way.
type stubKnowledge struct {
	answer domain.Answer
}

func (s *stubKnowledge) Answer(context.Context, string, string, driving.QueryOptions) domain.Answer {
	return s.answer
}

// stubIndexes returns canned lifecycle results.
type stubIndexes struct {
	stale bool
	info  domain.IndexInfo
	err   error
}

func (s *stubIndexes) NeedsRebuild(string) (bool, error) { return s.stale, s.err }
func (s *stubIndexes) EnsureIndex(context.Context, string) (*domain.IndexInfo, error) {
	return &s.info, s.err
}
func (s *stubIndexes) Rebuild(context.Context, string) (*domain.IndexInfo, error) {
	return &s.info, s.err
}
func (s *stubIndexes) Invalidate(string) {}

// stubHealth returns canned reports.
type stubHealth struct {
	reports []domain.HealthReport
}

func (s *stubHealth) Check(_ context.Context, dom string) domain.HealthReport {
	for _, r := range s.reports {
		if r.Domain == dom {
			return r
		}
	}
	return domain.HealthReport{Domain: dom, Status: domain.HealthHealthy, EmbeddingCount: -1}
}

func (s *stubHealth) CheckAll(context.Context) ([]domain.HealthReport, error) {
	return s.reports, nil
}

func (s *stubHealth) Domains() ([]string, error) {
	var domains []string
	for _, r := range s.reports {
		domains = append(domains, r.Domain)
	}
	return domains, nil
}

// stubImporter returns canned import results.
type stubImporter struct {
	result driving.ImportResult
	files  []domain.FileReport
	clean  driving.CleanResult
}

func (s *stubImporter) Import(context.Context, string, []string, driving.ImportOptions) (*driving.ImportResult, error) {
	return &s.result, nil
}

func (s *stubImporter) Validate(context.Context, string) ([]domain.FileReport, error) {
	return s.files, nil
}

func (s *stubImporter) Clean(context.Context, string) (*driving.CleanResult, error) {
	return &s.clean, nil
}

// setupTestServices wires stub services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	prevSnapshot := snapshot
	prevKnowledge := knowledgeService
	prevIndexes := indexManager
	prevHealth := healthChecker
	prevImporter := importService

	Configure(Deps{
		Snapshot: config.Default("agriculture"),
		Knowledge: &stubKnowledge{answer: domain.Answer{
			Status:  domain.AnswerSuccess,
			Text:    "Wheat is planted in October.",
			Sources: []string{"crops.txt"},
		}},
		Indexes: &stubIndexes{info: domain.IndexInfo{
			Domain:        "agriculture",
			Dir:           "data/indexes/agriculture_index",
			DocumentCount: 2,
			ChunkCount:    5,
			State:         domain.IndexValid,
		}},
		Health: &stubHealth{reports: []domain.HealthReport{
			{
				Domain:             "agriculture",
				Status:             domain.HealthWarning,
				DocumentCount:      5,
				IndexDocumentCount: 3,
				EmbeddingCount:     3,
				Issues:             []string{"Document count mismatch: 5 docs but 3 in index"},
			},
		}},
		Importer: &stubImporter{},
	})

	return func() {
		snapshot = prevSnapshot
		knowledgeService = prevKnowledge
		indexManager = prevIndexes
		healthChecker = prevHealth
		importService = prevImporter
	}
}
