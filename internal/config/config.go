// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rxcheck/ddi/internal/util"
)

const (
	EncoderTFIDF  = "tfidf"
	EncoderOpenAI = "openai"
	EncoderOllama = "ollama"
	EncoderNone   = "none"
)

type AI struct {
	Adapter string

	EmbedModel string
	EmbedURL   string
	EmbedKey   string
	EmbedDim   int

	ChatModel string
	ChatURL   string
	ChatKey   string

	ParallelRequests int64
}

type Reasoning struct {
	Enabled         bool
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Storage struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type Log struct {
	Debug bool
	Level string
	JSON  bool
}

// Config holds everything the server and the CLI need to assemble a pipeline.
type Config struct {
	Port        string
	SnapshotURI string
	Encoder     string
	DatabaseURL string
	RateLimit   float64

	AI        AI
	Reasoning Reasoning
	Storage   Storage
	Log       Log
}

// Load reads the configuration. Call util.LoadEnv first to pick up a .env
// file.
func Load() (Config, error) {
	cfg := Config{
		Port:        util.GetEnvString("PORT", "8080"),
		SnapshotURI: util.GetEnvString("SNAPSHOT_URI", "data/drug_interactions_dataset.json"),
		Encoder:     strings.ToLower(util.GetEnvString("ENCODER", EncoderTFIDF)),
		DatabaseURL: util.GetEnv("DATABASE_URL"),
		RateLimit:   util.GetEnvNumeric("RATE_LIMIT", 0),

		AI: AI{
			Adapter:          strings.ToLower(util.GetEnvString("AI_ADAPTER", EncoderOpenAI)),
			EmbedModel:       util.GetEnvString("AI_EMBED_MODEL", "text-embedding-3-small"),
			EmbedURL:         util.GetEnv("AI_EMBED_URL"),
			EmbedKey:         util.GetEnv("AI_EMBED_KEY"),
			EmbedDim:         int(util.GetEnvNumeric("AI_EMBED_DIM", 0)),
			ChatModel:        util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),
			ChatURL:          util.GetEnv("AI_CHAT_URL"),
			ChatKey:          util.GetEnv("AI_CHAT_KEY"),
			ParallelRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		},
		Reasoning: Reasoning{
			Enabled:         util.GetEnvBool("REASONING_ENABLED", false),
			Timeout:         util.GetEnvDuration("REASONING_TIMEOUT", 5*time.Second),
			BreakerFailures: uint32(util.GetEnvNumeric("BREAKER_FAILURES", 5)),
			BreakerCooldown: util.GetEnvDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
		Storage: Storage{
			Region:    util.GetEnvString("AWS_REGION", "us-east-1"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
		},
		Log: Log{
			Debug: util.GetEnvBool("DEBUG", false),
			Level: util.GetEnvString("LOG_LEVEL", "info"),
			JSON:  strings.EqualFold(util.GetEnv("LOG_FORMAT"), "json"),
		},
	}

	return cfg, cfg.Validate()
}

// Validate rejects combinations that cannot produce a working pipeline.
func (c Config) Validate() error {
	switch c.Encoder {
	case EncoderTFIDF, EncoderOpenAI, EncoderOllama, EncoderNone:
	default:
		return fmt.Errorf("unknown ENCODER %q", c.Encoder)
	}
	switch c.AI.Adapter {
	case EncoderOpenAI, EncoderOllama:
	default:
		return fmt.Errorf("unknown AI_ADAPTER %q", c.AI.Adapter)
	}
	if strings.TrimSpace(c.SnapshotURI) == "" {
		return fmt.Errorf("SNAPSHOT_URI is empty")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative")
	}
	return nil
}

// NeedsAIClient reports whether any configured layer talks to a model backend.
func (c Config) NeedsAIClient() bool {
	return c.Reasoning.Enabled || c.Encoder == EncoderOpenAI || c.Encoder == EncoderOllama
}
