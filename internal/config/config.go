// Package config loads business configuration for the assistant.
//
// Business configuration is JSON with three sections: business identity,
// voice pipeline models, and domain-specific knowledge settings. Loading
// produces an immutable snapshot that is passed into component
// constructors; Reload returns a fresh snapshot instead of mutating
// shared state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// DefaultEmbeddingModel is used when a domain config does not name one.
const DefaultEmbeddingModel = "all-minilm"

// Snapshot is an immutable view of one business's configuration.
type Snapshot struct {
	Business BusinessConfig `json:"business_config"`
	Voice    VoiceConfig    `json:"voice_config"`
	Domain   DomainConfig   `json:"domain_config"`
}

// BusinessConfig identifies the business the assistant speaks for.
type BusinessConfig struct {
	BusinessName         string `json:"business_name"`
	BusinessTagline      string `json:"business_tagline"`
	BusinessDescription  string `json:"business_description"`
	SpecialistName       string `json:"specialist_name"`
	Domain               string `json:"domain"`
	Region               string `json:"region"`
	Language             string `json:"language"`
	AssistantPersonality string `json:"assistant_personality"`
}

// VoiceConfig names the models of the external speech pipeline.
type VoiceConfig struct {
	WelcomeMessage string  `json:"welcome_message"`
	STTModel       string  `json:"stt_model"`
	LLMModel       string  `json:"llm_model"`
	LLMTemperature float64 `json:"llm_temperature"`
	TTSVoice       string  `json:"tts_voice"`
}

// DomainConfig holds knowledge-layer settings for the business domain.
type DomainConfig struct {
	Services       []string `json:"services"`
	EmbeddingModel string   `json:"embedding_model,omitempty"`
	DocumentPaths  []string `json:"document_paths,omitempty"`
}

// Load reads a snapshot from a JSON config file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, path, err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LoadForBusiness resolves the config file for a business type inside
// configDir (<type>_config.json) and loads it. A missing file falls
// back to the built-in defaults for that type.
func LoadForBusiness(businessType, configDir string) (*Snapshot, error) {
	if businessType == "" {
		return nil, fmt.Errorf("%w: business type not set", domain.ErrConfiguration)
	}

	path := filepath.Join(configDir, businessType+"_config.json")
	if _, err := os.Stat(path); err != nil {
		return Default(businessType), nil
	}
	return Load(path)
}

// Reload re-reads a snapshot from path. Identical to Load; the name
// documents intent at call sites that replace an earlier snapshot.
func Reload(path string) (*Snapshot, error) {
	return Load(path)
}

// Validate checks the snapshot for required fields.
func (s *Snapshot) Validate() error {
	if s.Business.Domain == "" {
		return fmt.Errorf("%w: business_config.domain is required", domain.ErrConfiguration)
	}
	if s.Business.BusinessName == "" {
		return fmt.Errorf("%w: business_config.business_name is required", domain.ErrConfiguration)
	}
	return nil
}

// BusinessInfo returns the facts used to synthesise fallback documents.
func (s *Snapshot) BusinessInfo() domain.BusinessInfo {
	return domain.BusinessInfo{
		Name:        s.Business.BusinessName,
		Description: s.Business.BusinessDescription,
		Services:    s.Domain.Services,
	}
}

// EmbeddingModel returns the configured embedding model or the default.
func (s *Snapshot) EmbeddingModel() string {
	if s.Domain.EmbeddingModel != "" {
		return s.Domain.EmbeddingModel
	}
	return DefaultEmbeddingModel
}

// WelcomeMessage renders the configured welcome template with the
// business name, domain and the first three services.
func (s *Snapshot) WelcomeMessage() string {
	services := s.Domain.Services
	if len(services) > 3 {
		services = services[:3]
	}
	msg := s.Voice.WelcomeMessage
	if msg == "" {
		msg = "Welcome to {business_name}! I'm your {domain} specialist assistant. " +
			"I can help you with {services}. How can I assist you today?"
	}

	r := strings.NewReplacer(
		"{business_name}", s.Business.BusinessName,
		"{domain}", s.Business.Domain,
		"{services}", strings.Join(services, ", "),
	)
	return r.Replace(msg)
}

// SystemPrompt renders the assistant's system prompt from the snapshot.
func (s *Snapshot) SystemPrompt() string {
	return fmt.Sprintf(
		"You are %s providing expert %s assistance for %s. Focus on %s. "+
			"Answer from the knowledge base when possible and maintain a %s approach.",
		s.Business.SpecialistName,
		s.Business.Domain,
		s.Business.Region,
		strings.Join(s.Domain.Services, ", "),
		s.Business.AssistantPersonality,
	)
}

// Default returns the built-in configuration for a business type.
// Unknown types get a generic template.
func Default(businessType string) *Snapshot {
	if businessType == "" {
		businessType = "generic"
	}
	switch businessType {
	case "agriculture":
		return &Snapshot{
			Business: BusinessConfig{
				BusinessName:         "Farmovation",
				BusinessTagline:      "Empowering farmers with modern agricultural knowledge",
				BusinessDescription:  "A company helping farmers improve yields through data-driven agriculture",
				SpecialistName:       "Farmovation Assistant",
				Domain:               "agriculture",
				Region:               "Pakistan",
				Language:             "en",
				AssistantPersonality: "professional, friendly, helpful, knowledgeable",
			},
			Voice: defaultVoice(0.7),
			Domain: DomainConfig{
				Services: []string{
					"crop recommendations",
					"pest management",
					"water conservation",
					"farming best practices",
				},
			},
		}
	case "restaurant":
		return &Snapshot{
			Business: BusinessConfig{
				BusinessName:         "Shawarma Delight",
				BusinessTagline:      "Authentic Mediterranean flavors in every bite",
				BusinessDescription:  "A local restaurant specializing in fresh, authentic shawarma and Mediterranean cuisine",
				SpecialistName:       "Shawarma Delight Assistant",
				Domain:               "restaurant",
				Region:               "Local",
				Language:             "en",
				AssistantPersonality: "friendly, helpful, enthusiastic, knowledgeable",
			},
			Voice: defaultVoice(0.7),
			Domain: DomainConfig{
				Services: []string{
					"menu information",
					"placing orders",
					"special dietary requirements",
					"restaurant hours and location",
				},
			},
		}
	case "technology":
		return &Snapshot{
			Business: BusinessConfig{
				BusinessName:         "Conversate",
				BusinessTagline:      "AI voice assistants tailored to your business needs",
				BusinessDescription:  "A platform that enables businesses to deploy customized voice assistants",
				SpecialistName:       "Conversate Assistant",
				Domain:               "technology",
				Region:               "Global",
				Language:             "en",
				AssistantPersonality: "professional, knowledgeable, helpful, adaptable",
			},
			Voice: defaultVoice(0.6),
			Domain: DomainConfig{
				Services: []string{
					"voice agent customization",
					"business integration solutions",
					"subscription plan information",
					"technical support",
				},
			},
		}
	default:
		name := strings.ToUpper(businessType[:1]) + businessType[1:]
		return &Snapshot{
			Business: BusinessConfig{
				BusinessName:         name + " Business",
				BusinessTagline:      "Your local " + businessType + " business",
				BusinessDescription:  "A business specializing in " + businessType + " services",
				SpecialistName:       name + " Assistant",
				Domain:               businessType,
				Region:               "Local",
				Language:             "en",
				AssistantPersonality: "professional, friendly, helpful",
			},
			Voice: defaultVoice(0.7),
			Domain: DomainConfig{
				Services: []string{businessType + " services"},
			},
		}
	}
}

func defaultVoice(temperature float64) VoiceConfig {
	return VoiceConfig{
		WelcomeMessage: "Welcome to {business_name}! I'm your {domain} specialist assistant. " +
			"I can help you with {services}. How can I assist you today?",
		STTModel:       "whisper-large-v3-turbo",
		LLMModel:       "llama-3.3-70b",
		LLMTemperature: temperature,
		TTSVoice:       "nova",
	}
}
