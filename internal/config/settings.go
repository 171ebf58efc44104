package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds application-level configuration, loaded from a TOML
// file. Unlike the per-business JSON config, settings describe the
// process: where data lives and which backends to talk to.
type Settings struct {
	// DataDir is the base directory for documents and indexes.
	DataDir string `toml:"data_dir"`

	// ConfigDir is where per-business JSON configs live.
	ConfigDir string `toml:"config_dir"`

	Embedding  BackendSettings `toml:"embedding"`
	Completion BackendSettings `toml:"completion"`

	// ChunkSize is the chunk size in tokens.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the chunk overlap in tokens.
	ChunkOverlap int `toml:"chunk_overlap"`

	// QueryTopK is the number of chunks retrieved per query.
	QueryTopK int `toml:"query_top_k"`

	// QueryTimeoutSeconds bounds retrieval plus synthesis per query.
	QueryTimeoutSeconds int `toml:"query_timeout_seconds"`
}

// BackendSettings configures one external AI backend.
type BackendSettings struct {
	// Provider selects the adapter: "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model overrides the provider's default model.
	Model string `toml:"model"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		DataDir:             "data",
		ConfigDir:           "config",
		Embedding:           BackendSettings{Provider: "ollama"},
		Completion:          BackendSettings{Provider: "ollama"},
		ChunkSize:           512,
		ChunkOverlap:        64,
		QueryTopK:           3,
		QueryTimeoutSeconds: 10,
	}
}

// LoadSettings reads settings from a TOML file, filling unset fields
// with defaults. A missing file returns the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}

	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = 512
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = 64
	}
	if s.QueryTopK <= 0 {
		s.QueryTopK = 3
	}
	if s.QueryTimeoutSeconds <= 0 {
		s.QueryTimeoutSeconds = 10
	}
	return s, nil
}

// QueryTimeout returns the query timeout as a duration.
func (s Settings) QueryTimeout() time.Duration {
	return time.Duration(s.QueryTimeoutSeconds) * time.Second
}
