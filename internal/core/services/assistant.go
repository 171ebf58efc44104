package services

import (
	"context"
	"strings"

	"github.com/conversate-labs/conversate/internal/business"
	"github.com/conversate-labs/conversate/internal/config"
	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// AssistantService drives a voice conversation: greet, then answer
// each committed utterance until the session ends. Fast static facts
// from the business profile are tried before the knowledge base, so
// common questions (prices, hours, plans) skip retrieval entirely.
type AssistantService struct {
	cfg       *config.Snapshot
	knowledge driving.KnowledgeService
	profile   business.Profile
}

// NewAssistantService creates a new conversation service. The business
// profile is resolved from the snapshot's domain tag.
func NewAssistantService(cfg *config.Snapshot, knowledge driving.KnowledgeService) *AssistantService {
	return &AssistantService{
		cfg:       cfg,
		knowledge: knowledge,
		profile:   business.ForDomain(cfg.Business.Domain),
	}
}

// Run drives the session to completion. A failed answer is spoken as
// an explanation and the conversation continues; only a dead session
// or a cancelled context ends the loop.
func (a *AssistantService) Run(ctx context.Context, session driven.SpeechSession) error {
	if err := session.Say(ctx, a.cfg.WelcomeMessage()); err != nil {
		return err
	}

	dom := a.cfg.Business.Domain
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case utterance, ok := <-session.Utterances():
			if !ok {
				logger.Debug("speech session ended")
				return nil
			}

			utterance = strings.TrimSpace(utterance)
			if utterance == "" {
				continue
			}
			logger.Debug("utterance: %q", utterance)

			if err := session.Say(ctx, a.reply(ctx, dom, utterance)); err != nil {
				return err
			}
		}
	}
}

// reply produces the spoken response for one utterance.
func (a *AssistantService) reply(ctx context.Context, dom, utterance string) string {
	if text, ok := a.profile.Answer(utterance); ok {
		logger.Debug("answered from business profile")
		return text
	}

	answer := a.knowledge.Answer(ctx, dom, utterance, driving.QueryOptions{})
	if answer.Status == domain.AnswerSuccess {
		return answer.Text
	}
	return answer.Message
}
