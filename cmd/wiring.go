package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/cloudwriter"
	"github.com/chrisdamba/menusight/internal/llm"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/output"
	"github.com/chrisdamba/menusight/internal/repositories"
	"github.com/chrisdamba/menusight/internal/repositories/file"
	"github.com/chrisdamba/menusight/internal/repositories/mongo"
	"github.com/chrisdamba/menusight/internal/repositories/postgres"
	s3repo "github.com/chrisdamba/menusight/internal/repositories/s3"
	"github.com/chrisdamba/menusight/internal/store"
	"github.com/chrisdamba/menusight/internal/upload"
)

// app bundles the store with the resources that must be released with it.
type app struct {
	store  *store.Store
	events *output.Publisher
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("action: close | result: fail | resource: store | error: %v", err)
	}
	if err := a.events.Close(); err != nil {
		log.Printf("action: close | result: fail | resource: events | error: %v", err)
	}
}

func openApp(ctx context.Context, cfg *models.Config) (*app, error) {
	kv, err := openKeyValueStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	dest, err := output.NewOutputDestination(cfg.Events)
	if err != nil {
		kv.Close()
		return nil, err
	}
	events := output.NewPublisher(dest, cfg.Events.Topic)

	comparison, err := analytics.NewPeriodComparison(cfg)
	if err != nil {
		kv.Close()
		events.Close()
		return nil, err
	}

	opts := store.Options{
		KV:     kv,
		Events: events,
		Intake: upload.NewIntake(cfg.Upload),
		Env: store.Env{
			Seed:       resolveSeed(cfg.Seed),
			SeriesDays: cfg.SeriesDays,
			Comparison: comparison,
		},
		PersistTimeout:      cfg.Storage.Timeout,
		CollaboratorTimeout: cfg.LLM.Timeout,
	}
	if err := attachLanguageModel(&opts, cfg.LLM); err != nil {
		kv.Close()
		events.Close()
		return nil, err
	}

	st, err := store.New(ctx, opts)
	if err != nil {
		kv.Close()
		events.Close()
		return nil, err
	}
	return &app{store: st, events: events}, nil
}

func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func attachLanguageModel(opts *store.Options, cfg models.LLMConfig) error {
	switch cfg.Provider {
	case "", "none":
		return nil
	case "openai":
		client, err := llm.NewOpenAIClient(cfg)
		if err != nil {
			return err
		}
		opts.Advisor = client
		opts.Parser = client
		opts.Insights = client
		opts.Chatter = client
		return nil
	default:
		return models.NewValidationError("llm.provider", fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}

func openKeyValueStore(ctx context.Context, cfg models.StorageConfig) (repositories.KeyValueStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, 2*timeout)
	defer cancel()

	switch cfg.Backend {
	case "memory":
		return repositories.NewMemoryStore(), nil
	case "file":
		return file.NewKVRepository(cfg.FileDir, cfg.Namespace)
	case "postgres":
		return postgres.NewKVRepository(ctx, cfg.PostgresURL, cfg.Namespace)
	case "mongo":
		return mongo.NewKVRepository(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.Namespace)
	case "s3":
		client, err := cloudwriter.NewS3Client(ctx, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		return s3repo.NewKVRepository(client, cfg.S3Bucket, cfg.S3Prefix, cfg.Namespace), nil
	default:
		return nil, models.NewValidationError("storage.backend", fmt.Sprintf("unknown backend %q", cfg.Backend))
	}
}
