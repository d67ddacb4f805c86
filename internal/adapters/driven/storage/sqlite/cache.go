package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

// maxQueryParams keeps IN lists under SQLite's bound-parameter limit.
const maxQueryParams = 500

// embeddingCache implements driven.EmbeddingCache.
type embeddingCache struct {
	store *Store
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

// GetMany returns cached vectors for the keys. Missing keys are simply absent.
func (c *embeddingCache) GetMany(ctx context.Context, model string, keys []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(keys))
	for start := 0; start < len(keys); start += maxQueryParams {
		end := min(start+maxQueryParams, len(keys))
		if err := c.getBatch(ctx, model, keys[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *embeddingCache) getBatch(ctx context.Context, model string, keys []string, out map[string][]float32) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, model)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	//nolint:gosec // placeholders are literal "?" markers
	query := `SELECT content_key, dimensions, vector FROM embedding_cache
		WHERE model = ? AND content_key IN (` + placeholders + `)`
	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying embedding cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key  string
			dims int
			blob []byte
		)
		if err := rows.Scan(&key, &dims, &blob); err != nil {
			return fmt.Errorf("scanning embedding: %w", err)
		}
		vec := bytesToFloat32Slice(blob)
		if len(vec) != dims {
			continue // torn write; treat as a miss
		}
		out[key] = vec
	}
	return rows.Err()
}

// PutMany stores vectors by key in one transaction, replacing existing rows.
func (c *embeddingCache) PutMany(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO embedding_cache (model, content_key, dimensions, vector)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for key, vec := range vectors {
		if len(vec) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, model, key, len(vec), float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("caching embedding %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Close is a no-op; the owning Store closes the connection.
func (c *embeddingCache) Close() error {
	return nil
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
