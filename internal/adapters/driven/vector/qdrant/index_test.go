package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// fakeQdrant records collection and point requests.
type fakeQdrant struct {
	mu        sync.Mutex
	exists    bool
	size      int
	created   map[string]any
	upserted  []point
	deleted   []string
	failWrite bool
	server    *httptest.Server
}

func newFakeQdrant(t *testing.T) *fakeQdrant {
	t.Helper()
	f := &fakeQdrant{size: 3}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.exists {
			http.Error(w, `{"status":{"error":"Not found"}}`, http.StatusNotFound)
			return
		}
		var info collectionInfo
		info.Result.Config.Params.Vectors.Size = f.size
		info.Result.Config.Params.Vectors.Distance = "Cosine"
		_ = json.NewEncoder(w).Encode(info)
	})
	mux.HandleFunc("PUT /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&f.created)
		f.exists = true
		_, _ = w.Write([]byte(`{"result":true}`))
	})
	mux.HandleFunc("PUT /collections/{name}/points", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		if f.failWrite {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var body struct {
			Points []point `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.upserted = append(f.upserted, body.Points...)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("POST /collections/{name}/points/delete", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body struct {
			Points []string `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.deleted = append(f.deleted, body.Points...)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "qd-key", r.Header.Get("api-key"))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeQdrant) config() Config {
	return Config{URL: f.server.URL, APIKey: "qd-key", Collection: "documents", Dimension: 3}
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, Config{Collection: "c", Dimension: 3})
	assert.Error(t, err)
	_, err = New(ctx, Config{URL: "http://x", Dimension: 3})
	assert.Error(t, err)
	_, err = New(ctx, Config{URL: "http://x", Collection: "c"})
	assert.Error(t, err)
}

// TestNew_CreatesCollection tests a missing collection is created with cosine distance
func TestNew_CreatesCollection(t *testing.T) {
	fake := newFakeQdrant(t)

	idx, err := New(context.Background(), fake.config())

	require.NoError(t, err)
	assert.Equal(t, "qdrant", idx.Backend())
	require.NotNil(t, fake.created)
	vectors := fake.created["vectors"].(map[string]any)
	assert.EqualValues(t, 3, vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestNew_ExistingCollection(t *testing.T) {
	fake := newFakeQdrant(t)
	fake.exists = true

	_, err := New(context.Background(), fake.config())

	require.NoError(t, err)
	assert.Nil(t, fake.created)
}

func TestNew_SizeMismatch(t *testing.T) {
	fake := newFakeQdrant(t)
	fake.exists = true
	fake.size = 1536

	_, err := New(context.Background(), fake.config())

	assert.ErrorContains(t, err, "vector size")
}

func TestUpsertAndDelete(t *testing.T) {
	fake := newFakeQdrant(t)
	fake.exists = true
	idx, err := New(context.Background(), fake.config())
	require.NoError(t, err)

	entry := domain.VectorEntry{
		ID:       "doc_0",
		Values:   []float32{0.1, 0.2, 0.3},
		Metadata: domain.VectorMetadata{DocumentID: "doc", Filename: "a.txt", Text: "hello", Strategy: "recursive"},
	}
	require.NoError(t, idx.Upsert(context.Background(), []domain.VectorEntry{entry}))

	require.Len(t, fake.upserted, 1)
	p := fake.upserted[0]
	assert.Equal(t, PointID("doc_0"), p.ID)
	assert.Equal(t, "doc_0", p.Payload["chunk_id"])
	assert.Equal(t, "hello", p.Payload["text"])
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, p.Vector)

	require.NoError(t, idx.Delete(context.Background(), []string{"doc_0"}))
	assert.Equal(t, []string{PointID("doc_0")}, fake.deleted)
	assert.NoError(t, idx.Close())
}

func TestUpsert_ServerError(t *testing.T) {
	fake := newFakeQdrant(t)
	fake.exists = true
	idx, err := New(context.Background(), fake.config())
	require.NoError(t, err)
	fake.failWrite = true

	err = idx.Upsert(context.Background(), []domain.VectorEntry{{ID: "x_0", Values: []float32{1, 2, 3}}})

	assert.ErrorContains(t, err, "500")
}

// TestPointID tests the chunk id to point id mapping is a stable UUID
func TestPointID(t *testing.T) {
	id := PointID("doc_0")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, PointID("doc_0"))
	assert.NotEqual(t, id, PointID("doc_1"))
}
