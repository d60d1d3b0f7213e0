// Package bootstrap assembles a resolve.Pipeline from configuration. The
// server and the CLI share it.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rxcheck/ddi/internal/config"
	"github.com/rxcheck/ddi/internal/storage"
	"github.com/rxcheck/ddi/internal/util"
	"github.com/rxcheck/ddi/pkg/ai"
	oai "github.com/rxcheck/ddi/pkg/ai/ollama"
	gai "github.com/rxcheck/ddi/pkg/ai/openai"
	"github.com/rxcheck/ddi/pkg/catalog"
	"github.com/rxcheck/ddi/pkg/embedding"
	"github.com/rxcheck/ddi/pkg/embedding/pgcache"
	"github.com/rxcheck/ddi/pkg/loader"
	fileloader "github.com/rxcheck/ddi/pkg/loader/io"
	s3loader "github.com/rxcheck/ddi/pkg/loader/s3"
	"github.com/rxcheck/ddi/pkg/logger"
	"github.com/rxcheck/ddi/pkg/resolve"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	snapshotAttempts = 3
	snapshotBackoff  = 500 * time.Millisecond
)

// App owns the assembled pipeline and the resources behind it.
type App struct {
	Pipeline *resolve.Pipeline

	pool *pgxpool.Pool
}

// Close releases the embedding cache connection, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Build loads the snapshot and wires the optional layers around it. Only a
// snapshot failure is returned as an error; encoder, cache and reasoning
// problems degrade the pipeline and are logged.
func Build(ctx context.Context, cfg config.Config, observer resolve.Observer) (*App, error) {
	src, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cat, table, err := LoadSnapshot(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded reference snapshot",
		"source", src.Name(),
		"drugs", cat.Len(),
		"interactions", table.Len(),
	)

	app := &App{}
	clients := map[string]ai.Client{}
	usage, _ := observer.(ai.UsageObserver)

	enc := app.encoder(ctx, cfg, usage, clients)
	var index *embedding.Index
	if enc != nil {
		index, err = embedding.Build(ctx, cat, enc)
		if err != nil {
			logger.Warn("Similarity index unavailable", "encoder", enc.Name(), "err", err)
			index = nil
		} else {
			logger.Info("Built similarity index", "encoder", enc.Name(), "drugs", index.Len(), "dimension", index.Dimension())
		}
	}

	var reasoner resolve.Synthesizer
	switch {
	case !cfg.Reasoning.Enabled:
	case index == nil:
		logger.Warn("Reasoning service disabled, similarity index unavailable", "adapter", cfg.AI.Adapter)
	case cfg.AI.Adapter == config.EncoderOpenAI && cfg.AI.ChatKey == "":
		logger.Warn("Reasoning service disabled, AI_CHAT_KEY is empty", "adapter", cfg.AI.Adapter)
	default:
		client, err := aiClient(cfg.AI.Adapter, cfg.AI, usage, clients)
		if err != nil {
			logger.Warn("Reasoning service unavailable", "adapter", cfg.AI.Adapter, "err", err)
		} else {
			reasoner = resolve.NewReasoningSynthesizer(client, resolve.ReasoningConfig{
				Timeout:         cfg.Reasoning.Timeout,
				BreakerFailures: cfg.Reasoning.BreakerFailures,
				BreakerCooldown: cfg.Reasoning.BreakerCooldown,
				Observer:        observer,
			})
			logger.Info("Reasoning service enabled", "adapter", client.Name(), "model", cfg.AI.ChatModel)
		}
	}

	app.Pipeline = resolve.NewPipeline(resolve.PipelineParams{
		Catalog:  cat,
		Table:    table,
		Index:    index,
		Reasoner: reasoner,
		Observer: observer,
	})
	return app, nil
}

// OpenSource resolves cfg.SnapshotURI to a loader.Source.
func OpenSource(ctx context.Context, cfg config.Config) (loader.Source, error) {
	loc, err := loader.ParseURI(cfg.SnapshotURI)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case loader.SchemeS3:
		client, err := storage.NewS3Client(ctx, storage.S3Params{
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3loader.NewS3SourceWithClient(loc.Bucket, loc.Key, client), nil
	default:
		return fileloader.NewFileSource(loc.Path), nil
	}
}

// LoadSnapshot fetches and decodes the snapshot. Fetching is retried; a
// malformed snapshot is not.
func LoadSnapshot(ctx context.Context, src loader.Source) (*catalog.Catalog, *catalog.InteractionTable, error) {
	data, err := util.RetryWithContext(ctx, snapshotAttempts, snapshotBackoff, src.Fetch)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch snapshot %s: %w", src.Name(), err)
	}
	return catalog.Load(data, src.Name())
}

func (a *App) encoder(ctx context.Context, cfg config.Config, usage ai.UsageObserver, clients map[string]ai.Client) embedding.Encoder {
	switch cfg.Encoder {
	case config.EncoderNone:
		return nil
	case config.EncoderTFIDF:
		return embedding.NewTFIDFEncoder()
	}

	client, err := aiClient(cfg.Encoder, cfg.AI, usage, clients)
	if err != nil {
		logger.Warn("Embedding backend unavailable", "encoder", cfg.Encoder, "err", err)
		return nil
	}
	var enc embedding.Encoder = embedding.NewRemoteEncoder(client.Name()+"/"+cfg.AI.EmbedModel, client, 0)

	if cfg.DatabaseURL == "" {
		return enc
	}
	pool, err := pgcache.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("Embedding cache unavailable", "err", err)
		return enc
	}
	a.pool = pool
	logger.Info("Embedding cache enabled", "encoder", enc.Name())
	return pgcache.New(pool, enc)
}

// aiClient builds one client per adapter and reuses it for both the encoder
// and the reasoning strategy. Token usage is reported to usage when set.
func aiClient(adapter string, cfg config.AI, usage ai.UsageObserver, clients map[string]ai.Client) (ai.Client, error) {
	if c, ok := clients[adapter]; ok {
		return c, nil
	}

	var client ai.Client
	switch adapter {
	case config.EncoderOllama:
		c, err := oai.NewOllamaClient(oai.NewOllamaClientParams{
			EmbeddingModel: cfg.EmbedModel,
			ChatModel:      cfg.ChatModel,
			EmbeddingDim:   cfg.EmbedDim,

			BaseURL: cfg.ChatURL,
			ApiKey:  cfg.ChatKey,

			MaxConcurrentRequests: cfg.ParallelRequests,
			Usage:                 usage,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		client = c
	case config.EncoderOpenAI:
		if cfg.ChatKey == "" && cfg.EmbedKey == "" {
			return nil, fmt.Errorf("AI_CHAT_KEY and AI_EMBED_KEY are empty")
		}
		client = gai.NewOpenAIClient(gai.NewOpenAIClientParams{
			EmbeddingModel: cfg.EmbedModel,
			ChatModel:      cfg.ChatModel,
			EmbeddingDim:   cfg.EmbedDim,

			EmbeddingURL: cfg.EmbedURL,
			EmbeddingKey: cfg.EmbedKey,
			ChatURL:      cfg.ChatURL,
			ChatKey:      cfg.ChatKey,

			MaxConcurrentRequests: cfg.ParallelRequests,
			Usage:                 usage,
		})
	default:
		return nil, fmt.Errorf("unknown AI adapter %q", adapter)
	}

	clients[adapter] = client
	return client, nil
}
