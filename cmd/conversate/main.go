package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	embollama "github.com/conversate-labs/conversate/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/conversate-labs/conversate/internal/adapters/driven/embedding/openai"

	cplollama "github.com/conversate-labs/conversate/internal/adapters/driven/completion/ollama"
	cplopenai "github.com/conversate-labs/conversate/internal/adapters/driven/completion/openai"

	"github.com/conversate-labs/conversate/internal/adapters/driven/docloader/filesystem"
	vecsqlite "github.com/conversate-labs/conversate/internal/adapters/driven/vector/sqlite"
	"github.com/conversate-labs/conversate/internal/adapters/driving/cli"
	"github.com/conversate-labs/conversate/internal/chunker"
	"github.com/conversate-labs/conversate/internal/config"
	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/core/services"
)

// Build-time variables, set via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	settings, err := config.LoadSettings(envOrDefault("CONVERSATE_SETTINGS", "settings.toml"))
	if err != nil {
		return err
	}

	businessType := envOrDefault("BUSINESS_TYPE", "agriculture")
	snapshot, err := config.LoadForBusiness(businessType, settings.ConfigDir)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(settings, snapshot)
	if err != nil {
		return err
	}
	defer embedder.Close()

	completer, err := newCompleter(settings, snapshot)
	if err != nil {
		return err
	}
	defer completer.Close()

	layout := domain.Layout{DataDir: settings.DataDir}
	splitter := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)

	indexes := services.NewIndexService(
		layout,
		filesystem.NewLoader(),
		embedder,
		vecsqlite.NewStore(),
		splitter,
		snapshot.BusinessInfo(),
	)
	defer indexes.Close()

	knowledge := services.NewKnowledge(indexes, completer, snapshot.Voice.LLMTemperature, driving.QueryOptions{
		TopK:    settings.QueryTopK,
		Timeout: settings.QueryTimeout(),
	})
	health := services.NewHealthService(layout, vecsqlite.NewStore())
	importer := services.NewImportService(layout)
	assistant := services.NewAssistantService(snapshot, knowledge)

	if domains, err := health.Domains(); err == nil && len(domains) > 0 {
		watcher, err := services.NewWatcher(layout, indexes, domains)
		if err == nil {
			defer watcher.Close()
		}
	}

	cli.Configure(cli.Deps{
		Snapshot:  snapshot,
		Knowledge: knowledge,
		Indexes:   indexes,
		Health:    health,
		Importer:  importer,
		Assistant: assistant,
		Version:   version,
	})
	return cli.Execute()
}

func newEmbedder(settings config.Settings, snapshot *config.Snapshot) (driven.EmbeddingService, error) {
	model := settings.Embedding.Model
	if model == "" {
		model = snapshot.EmbeddingModel()
	}

	switch settings.Embedding.Provider {
	case "", "ollama":
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL: settings.Embedding.BaseURL,
			Model:   model,
		}), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai embedding provider")
		}
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:  apiKey,
			BaseURL: settings.Embedding.BaseURL,
			Model:   model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.Embedding.Provider)
	}
}

func newCompleter(settings config.Settings, snapshot *config.Snapshot) (driven.CompletionService, error) {
	model := settings.Completion.Model
	if model == "" {
		model = snapshot.Voice.LLMModel
	}

	switch settings.Completion.Provider {
	case "", "ollama":
		return cplollama.NewCompletionService(cplollama.Config{
			BaseURL: settings.Completion.BaseURL,
			Model:   model,
		}), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai completion provider")
		}
		return cplopenai.NewCompletionService(cplopenai.Config{
			APIKey:  apiKey,
			BaseURL: settings.Completion.BaseURL,
			Model:   model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", settings.Completion.Provider)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
