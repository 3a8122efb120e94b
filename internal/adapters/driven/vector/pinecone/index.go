// Package pinecone provides a vector index adapter for the Pinecone REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// BackendName identifies Pinecone in responses.
const BackendName = "pinecone"

// Default configuration values.
const (
	DefaultControlURL   = "https://api.pinecone.io"
	DefaultAPIVersion   = "2024-07"
	DefaultTimeout      = 30 * time.Second
	DefaultReadyTimeout = 2 * time.Minute
	defaultPollInterval = 2 * time.Second
)

// Config holds configuration for the Pinecone index.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// Index is the index name (required).
	Index string

	// Dimension is the embedding size; a new index is created with it and
	// an existing index must match it.
	Dimension int

	// Cloud and Region select the serverless placement for new indexes.
	Cloud  string
	Region string

	// Namespace partitions vectors within the index. Empty uses the default.
	Namespace string

	// ControlURL overrides the control plane endpoint.
	ControlURL string

	// Timeout bounds each HTTP request (default: 30s).
	Timeout time.Duration

	// ReadyTimeout bounds the wait for a newly created index (default: 2m).
	ReadyTimeout time.Duration
}

// Index mirrors chunk embeddings into a Pinecone index.
type Index struct {
	client       *http.Client
	apiKey       string
	controlURL   string
	dataURL      string
	namespace    string
	pollInterval time.Duration
}

// indexDescription is the control plane view of an index.
type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vector `json:"vectors"`
	Namespace string   `json:"namespace"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace"`
}

// statusError is a non-2xx response.
type statusError struct {
	method string
	url    string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("pinecone %s %s: status %d: %s", e.method, e.url, e.code, e.body)
}

// New connects to the configured index, creating it when it does not exist.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("pinecone: API key is required")
	}
	if cfg.Index == "" {
		return nil, errors.New("pinecone: index name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("pinecone: dimension must be positive")
	}
	if cfg.ControlURL == "" {
		cfg.ControlURL = DefaultControlURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}

	idx := &Index{
		client:       &http.Client{Timeout: cfg.Timeout},
		apiKey:       cfg.APIKey,
		controlURL:   strings.TrimRight(cfg.ControlURL, "/"),
		namespace:    cfg.Namespace,
		pollInterval: min(defaultPollInterval, cfg.ReadyTimeout/10),
	}

	desc, err := idx.ensureIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}
	idx.dataURL = hostURL(desc.Host)
	return idx, nil
}

// ensureIndex describes the index, creating it and waiting for readiness if missing.
func (i *Index) ensureIndex(ctx context.Context, cfg Config) (*indexDescription, error) {
	desc, err := i.describe(ctx, cfg.Index)
	if err == nil {
		if desc.Dimension != cfg.Dimension {
			return nil, fmt.Errorf("pinecone: index %s has dimension %d, embedding model produces %d",
				cfg.Index, desc.Dimension, cfg.Dimension)
		}
		return desc, nil
	}

	var se *statusError
	if !errors.As(err, &se) || se.code != http.StatusNotFound {
		return nil, err
	}

	logger.Info("Creating Pinecone index %s (dimension %d, %s/%s)", cfg.Index, cfg.Dimension, cfg.Cloud, cfg.Region)
	req := createIndexRequest{
		Name:      cfg.Index,
		Dimension: cfg.Dimension,
		Metric:    "cosine",
		Spec:      indexSpec{Serverless: serverlessSpec{Cloud: cfg.Cloud, Region: cfg.Region}},
	}
	var created indexDescription
	if err := i.do(ctx, http.MethodPost, i.controlURL+"/indexes", req, &created); err != nil {
		return nil, fmt.Errorf("pinecone: create index: %w", err)
	}
	if created.Status.Ready && created.Host != "" {
		return &created, nil
	}

	return i.waitReady(ctx, cfg.Index, cfg.ReadyTimeout)
}

// waitReady polls the index description until it reports ready.
func (i *Index) waitReady(ctx context.Context, name string, timeout time.Duration) (*indexDescription, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(i.pollInterval)
	defer ticker.Stop()

	for {
		desc, err := i.describe(ctx, name)
		if err == nil && desc.Status.Ready && desc.Host != "" {
			return desc, nil
		}
		if err != nil {
			logger.Debug("Pinecone index %s not described yet: %v", name, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("pinecone: index %s not ready: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (i *Index) describe(ctx context.Context, name string) (*indexDescription, error) {
	var desc indexDescription
	if err := i.do(ctx, http.MethodGet, i.controlURL+"/indexes/"+name, nil, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Backend returns the provider name.
func (i *Index) Backend() string {
	return BackendName
}

// Upsert inserts or replaces vectors in the configured namespace.
func (i *Index) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	req := upsertRequest{
		Vectors:   make([]vector, len(entries)),
		Namespace: i.namespace,
	}
	for n, e := range entries {
		req.Vectors[n] = vector{ID: e.ID, Values: e.Values, Metadata: e.Metadata.AsMap()}
	}

	var resp upsertResponse
	if err := i.do(ctx, http.MethodPost, i.dataURL+"/vectors/upsert", req, &resp); err != nil {
		return fmt.Errorf("pinecone: upsert: %w", err)
	}
	if resp.UpsertedCount != len(entries) {
		return fmt.Errorf("pinecone: upserted %d of %d vectors", resp.UpsertedCount, len(entries))
	}
	return nil
}

// Delete removes vectors by chunk ID. Unknown IDs are ignored by Pinecone.
func (i *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	req := deleteRequest{IDs: ids, Namespace: i.namespace}
	if err := i.do(ctx, http.MethodPost, i.dataURL+"/vectors/delete", req, nil); err != nil {
		return fmt.Errorf("pinecone: delete: %w", err)
	}
	return nil
}

// Close releases resources.
func (i *Index) Close() error {
	i.client.CloseIdleConnections()
	return nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (i *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", i.apiKey)
	req.Header.Set("X-Pinecone-API-Version", DefaultAPIVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{method: method, url: url, code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// hostURL turns the bare host Pinecone reports into a base URL.
func hostURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}
