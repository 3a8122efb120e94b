// Package qdrant provides a minimal REST vector index adapter for Qdrant.
// It assumes cosine distance and creates the collection if missing.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// BackendName identifies Qdrant in responses.
const BackendName = "qdrant"

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 15 * time.Second

// Config contains connection details for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// Index mirrors chunk embeddings into a Qdrant collection.
type Index struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// statusError is a non-2xx response.
type statusError struct {
	method string
	path   string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: status %d: %s", e.method, e.path, e.code, e.body)
}

// New connects to the collection, creating it when it does not exist.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.URL == "" {
		return nil, errors.New("qdrant: URL is required")
	}
	if cfg.Collection == "" {
		return nil, errors.New("qdrant: collection is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("qdrant: invalid dimension")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	idx := &Index{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
	if err := idx.ensureCollection(ctx, cfg.Dimension); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *Index) collectionPath() string {
	return "/collections/" + url.PathEscape(i.collection)
}

func (i *Index) ensureCollection(ctx context.Context, dimension int) error {
	var info collectionInfo
	err := i.do(ctx, http.MethodGet, i.collectionPath(), nil, &info)
	if err == nil {
		if size := info.Result.Config.Params.Vectors.Size; size != 0 && size != dimension {
			return fmt.Errorf("qdrant: collection %s has vector size %d, embedding model produces %d",
				i.collection, size, dimension)
		}
		return nil
	}

	var se *statusError
	if !errors.As(err, &se) || se.code != http.StatusNotFound {
		return err
	}

	logger.Info("Creating Qdrant collection %s (dimension %d)", i.collection, dimension)
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := i.do(ctx, http.MethodPut, i.collectionPath(), body, nil); err != nil {
		return fmt.Errorf("qdrant: create collection: %w", err)
	}
	return nil
}

// PointID maps a chunk ID to the UUID Qdrant requires.
// The mapping is deterministic so deletes can be issued by chunk ID.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String()
}

// Backend returns the provider name.
func (i *Index) Backend() string {
	return BackendName
}

// Upsert inserts or replaces points. The chunk ID is kept in the payload.
func (i *Index) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]point, len(entries))
	for n, e := range entries {
		payload := e.Metadata.AsMap()
		payload["chunk_id"] = e.ID
		points[n] = point{ID: PointID(e.ID), Vector: e.Values, Payload: payload}
	}
	body := map[string]any{"points": points}
	if err := i.do(ctx, http.MethodPut, i.collectionPath()+"/points?wait=true", body, nil); err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

// Delete removes points by chunk ID.
func (i *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	points := make([]string, len(ids))
	for n, id := range ids {
		points[n] = PointID(id)
	}
	body := map[string]any{"points": points}
	if err := i.do(ctx, http.MethodPost, i.collectionPath()+"/points/delete?wait=true", body, nil); err != nil {
		return fmt.Errorf("qdrant: delete: %w", err)
	}
	return nil
}

// Close releases resources.
func (i *Index) Close() error {
	i.client.CloseIdleConnections()
	return nil
}

func (i *Index) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, i.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if i.apiKey != "" {
		req.Header.Set("api-key", i.apiKey)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{method: method, path: path, code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
