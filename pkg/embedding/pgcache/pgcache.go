// Package pgcache persists encoder output in Postgres with pgvector so a
// restart does not have to re-encode an unchanged catalog.
package pgcache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/rxcheck/ddi/pkg/embedding"
	"github.com/rxcheck/ddi/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS drug_embedding_cache (
	cache_key  TEXT PRIMARY KEY,
	encoder    TEXT NOT NULL,
	embedding  vector NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// schemaLockKey serializes schema creation between replicas starting at once.
const schemaLockKey = "ddi_embedding_cache"

// Connect prepares the cache schema and opens a pool with the pgvector types
// registered on every connection.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// the vector type must exist before AfterConnect can register it
	conn, err := pgx.ConnectConfig(ctx, cfg.ConnConfig.Copy())
	if err != nil {
		return nil, err
	}
	err = ensureSchema(ctx, conn)
	conn.Close(ctx)
	if err != nil {
		return nil, err
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func ensureSchema(ctx context.Context, conn *pgx.Conn) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", schemaLockKey); err != nil {
		return fmt.Errorf("lock embedding cache schema: %w", err)
	}
	if _, err := tx.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create embedding cache table: %w", err)
	}
	return tx.Commit(ctx)
}

// Encoder serves vectors from the cache table and only forwards misses to
// the wrapped encoder. Cache read or write failures are logged and never
// fail an encode.
type Encoder struct {
	pool  *pgxpool.Pool
	inner embedding.Encoder
}

// New wraps inner. pool must come from Connect.
func New(pool *pgxpool.Pool, inner embedding.Encoder) *Encoder {
	return &Encoder{pool: pool, inner: inner}
}

func (e *Encoder) Name() string { return e.inner.Name() }

// Prepare forwards to the wrapped encoder when it needs the corpus.
func (e *Encoder) Prepare(corpus []string) error {
	if p, ok := e.inner.(embedding.Preparer); ok {
		return p.Prepare(corpus)
	}
	return nil
}

func (e *Encoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = CacheKey(e.inner.Name(), t)
	}

	out := make([][]float32, len(texts))
	cached, err := e.lookup(ctx, keys)
	if err != nil {
		logger.Warn("Embedding cache lookup failed", "err", err)
		cached = nil
	}

	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))
	for i, k := range keys {
		if v, ok := cached[k]; ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}
	logger.Debug("Embedding cache", "encoder", e.inner.Name(), "hits", len(texts)-len(missIdx), "misses", len(missIdx))
	if len(missIdx) == 0 {
		return out, nil
	}

	fresh, err := e.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(fresh), len(missTexts))
	}

	batch := &pgx.Batch{}
	for j, i := range missIdx {
		out[i] = fresh[j]
		batch.Queue(
			`INSERT INTO drug_embedding_cache (cache_key, encoder, embedding) VALUES ($1, $2, $3)
			 ON CONFLICT (cache_key) DO NOTHING`,
			keys[i], e.inner.Name(), pgvector.NewVector(fresh[j]),
		)
	}
	if err := e.pool.SendBatch(ctx, batch).Close(); err != nil {
		logger.Warn("Embedding cache write failed", "err", err)
	}
	return out, nil
}

func (e *Encoder) lookup(ctx context.Context, keys []string) (map[string][]float32, error) {
	rows, err := e.pool.Query(ctx,
		`SELECT cache_key, embedding FROM drug_embedding_cache WHERE cache_key = ANY($1)`,
		keys,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string][]float32, len(keys))
	for rows.Next() {
		var key string
		var vec pgvector.Vector
		if err := rows.Scan(&key, &vec); err != nil {
			return nil, err
		}
		found[key] = vec.Slice()
	}
	return found, rows.Err()
}

// CacheKey identifies a text as embedded by a specific encoder.
func CacheKey(encoder, text string) string {
	sum := sha1.Sum([]byte(encoder + "|" + text))
	return hex.EncodeToString(sum[:])
}
