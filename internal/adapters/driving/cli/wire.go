package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/keyword/bleve"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/sercha-ingest/internal/chunker"
	"github.com/custodia-labs/sercha-ingest/internal/config"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/core/services"
	"github.com/custodia-labs/sercha-ingest/internal/extractors"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// app holds the constructed services and the clients they own.
type app struct {
	ingest    *services.IngestService
	documents *services.DocumentService
	closers   []func() error
}

// newApp constructs every client from cfg. On error, anything already
// opened is closed.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	if err := a.open(ctx, cfg); err != nil {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("Closing partially opened clients: %v", closeErr)
		}
		return nil, err
	}
	return a, nil
}

// open constructs the clients and services, recording a closer for each
// client as soon as it exists.
func (a *app) open(ctx context.Context, cfg *config.Config) error {
	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:            cfg.Embedding.APIKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		Timeout:           cfg.Timeout(),
		Dimensions:        cfg.Embedding.Dimensions,
		RequestsPerMinute: cfg.Embedding.RequestsPerMinute,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, embedder.Close)
	logger.Debug("Embedding model %s (%d dimensions)", embedder.ModelName(), embedder.Dimensions())

	var (
		docStore driven.DocumentStore
		sqlStore *sqlite.Store
	)
	if cfg.InMemoryStore() {
		mem := memory.NewDocumentStore()
		a.closers = append(a.closers, mem.Close)
		docStore = mem
		logger.Debug("Using in-memory document store")
	} else {
		sqlStore, err = sqlite.NewStore(cfg.DocumentStorePath())
		if err != nil {
			return err
		}
		a.closers = append(a.closers, sqlStore.Close)
		docStore = sqlStore.DocumentStore()
		logger.Debug("Using document store %s", sqlStore.Path())
	}

	var vector driven.VectorIndex
	if cfg.Vector.Enabled {
		vector, err = a.openVectorIndex(ctx, cfg, embedder.Dimensions(), sqlStore)
		if err != nil {
			return err
		}
		logger.Debug("Vector index backend %s", vector.Backend())
	}

	var keyword driven.KeywordIndex
	if cfg.KeywordIndexPath != "" {
		idx, err := bleve.Open(cfg.KeywordIndexPath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, idx.Close)
		keyword = idx
		logger.Debug("Keyword index %s", cfg.KeywordIndexPath)
	}

	a.ingest = services.NewIngestService(
		extractors.NewDefaultRegistry(),
		chunker.New(),
		embedder,
		docStore,
		vector,
		keyword,
		cfg.Timeout(),
	)
	a.documents = services.NewDocumentService(docStore, vector, keyword, cfg.Timeout())
	return nil
}

// openVectorIndex connects the configured backend. The sqlite backend
// shares the document database when there is one.
func (a *app) openVectorIndex(
	ctx context.Context,
	cfg *config.Config,
	dimension int,
	sqlStore *sqlite.Store,
) (driven.VectorIndex, error) {
	switch cfg.Vector.Backend {
	case config.BackendPinecone:
		idx, err := pinecone.New(ctx, pinecone.Config{
			APIKey:    cfg.Vector.Pinecone.APIKey,
			Index:     cfg.Vector.Pinecone.Index,
			Dimension: dimension,
			Cloud:     cfg.Vector.Pinecone.Cloud,
			Region:    cfg.Vector.Pinecone.Region,
			Namespace: cfg.Vector.Pinecone.Namespace,
			Timeout:   cfg.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, idx.Close)
		return idx, nil

	case config.BackendQdrant:
		idx, err := qdrant.New(ctx, qdrant.Config{
			URL:        cfg.Vector.Qdrant.URL,
			APIKey:     cfg.Vector.Qdrant.APIKey,
			Collection: cfg.Vector.Qdrant.Collection,
			Dimension:  dimension,
			Timeout:    cfg.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, idx.Close)
		return idx, nil

	case config.BackendSQLite:
		if sqlStore == nil {
			var err error
			sqlStore, err = sqlite.NewStore(filepath.Join(cfg.DataDir, "vectors.db"))
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, sqlStore.Close)
		}
		return sqlStore.VectorIndex(), nil

	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", config.ErrInvalidConfig, cfg.Vector.Backend)
	}
}

// Close releases clients in reverse order of creation.
func (a *app) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
