// Package config loads sercha-ingest settings.
//
// Values are resolved in increasing order of precedence:
// built-in defaults, an optional TOML file, a .env file, and the process
// environment. The .env file never overrides variables that are already set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultListenAddr       = ":8000"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultCallTimeout      = 60 * time.Second
	DefaultMaxUploadBytes   = 32 << 20
	DefaultVectorBackend    = BackendPinecone
	DefaultPineconeIndex    = "document-ingestion-api"
	DefaultPineconeCloud    = "aws"
	DefaultPineconeRegion   = "us-east-1"
	DefaultQdrantCollection = "documents"

	// MemoryStoreURL selects the in-memory document store.
	MemoryStoreURL = "memory"
)

// Vector index backends.
const (
	BackendPinecone = "pinecone"
	BackendQdrant   = "qdrant"
	BackendSQLite   = "sqlite"
)

// ErrInvalidConfig indicates missing or inconsistent settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration read from strings such as "90s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the complete application configuration.
type Config struct {
	ListenAddr       string          `toml:"listen_addr"`
	DataDir          string          `toml:"data_dir"`
	DocumentStoreURL string          `toml:"document_store_url"`
	CallTimeout      Duration        `toml:"call_timeout"`
	MaxUploadBytes   int64           `toml:"max_upload_bytes"`
	KeywordIndexPath string          `toml:"keyword_index_path"`
	Verbose          bool            `toml:"verbose"`
	Embedding        EmbeddingConfig `toml:"embedding"`
	Vector           VectorConfig    `toml:"vector"`
}

// EmbeddingConfig configures the OpenAI embedding client.
type EmbeddingConfig struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Model             string `toml:"model"`
	Dimensions        int    `toml:"dimensions"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// VectorConfig selects and configures the optional vector index.
type VectorConfig struct {
	Enabled  bool           `toml:"enabled"`
	Backend  string         `toml:"backend"`
	Pinecone PineconeConfig `toml:"pinecone"`
	Qdrant   QdrantConfig   `toml:"qdrant"`
}

// PineconeConfig contains Pinecone connection details.
type PineconeConfig struct {
	APIKey    string `toml:"api_key"`
	Index     string `toml:"index"`
	Cloud     string `toml:"cloud"`
	Region    string `toml:"region"`
	Namespace string `toml:"namespace"`
}

// QdrantConfig contains Qdrant connection details.
type QdrantConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := ".sercha-ingest"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".sercha-ingest")
	}

	return &Config{
		ListenAddr:     DefaultListenAddr,
		DataDir:        dataDir,
		CallTimeout:    Duration(DefaultCallTimeout),
		MaxUploadBytes: DefaultMaxUploadBytes,
		Embedding: EmbeddingConfig{
			Model: DefaultEmbeddingModel,
		},
		Vector: VectorConfig{
			Backend: DefaultVectorBackend,
			Pinecone: PineconeConfig{
				Index:  DefaultPineconeIndex,
				Cloud:  DefaultPineconeCloud,
				Region: DefaultPineconeRegion,
			},
			Qdrant: QdrantConfig{
				Collection: DefaultQdrantCollection,
			},
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is non-empty), the given .env files (default ".env"; missing files
// are ignored) and the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	dotenv := make(map[string]string)
	for _, f := range envFiles {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read env file %s: %w", f, err)
		}
		for k, v := range values {
			dotenv[k] = v
		}
	}

	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKeys lists every environment variable Load reads.
var envKeys = []string{
	"INGEST_LISTEN_ADDR", "INGEST_DATA_DIR", "DOCUMENT_STORE_URL", "KEYWORD_INDEX_PATH",
	"INGEST_VERBOSE", "EXTERNAL_CALL_TIMEOUT", "MAX_UPLOAD_BYTES",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS", "EMBEDDING_RPM",
	"VECTOR_DB_ENABLED", "VECTOR_DB_BACKEND",
	"PINECONE_API_KEY", "PINECONE_INDEX", "PINECONE_CLOUD", "PINECONE_REGION", "PINECONE_NAMESPACE",
	"QDRANT_URL", "QDRANT_API_KEY", "QDRANT_COLLECTION",
}

// applyEnv overrides fields from environment variables.
// Empty values are treated as unset.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, v))
				return
			}
			*dst = b
		}
	}

	str("INGEST_LISTEN_ADDR", &c.ListenAddr)
	str("INGEST_DATA_DIR", &c.DataDir)
	str("DOCUMENT_STORE_URL", &c.DocumentStoreURL)
	str("KEYWORD_INDEX_PATH", &c.KeywordIndexPath)
	boolean("INGEST_VERBOSE", &c.Verbose)

	if v, ok := lookup("EXTERNAL_CALL_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		if err := c.CallTimeout.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			errs = append(errs, fmt.Errorf("%w: EXTERNAL_CALL_TIMEOUT=%q: %v", ErrInvalidConfig, v, err))
		}
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: MAX_UPLOAD_BYTES=%q is not an integer", ErrInvalidConfig, v))
		} else {
			c.MaxUploadBytes = n
		}
	}

	str("OPENAI_API_KEY", &c.Embedding.APIKey)
	str("OPENAI_BASE_URL", &c.Embedding.BaseURL)
	str("EMBEDDING_MODEL", &c.Embedding.Model)
	integer("EMBEDDING_DIMENSIONS", &c.Embedding.Dimensions)
	integer("EMBEDDING_RPM", &c.Embedding.RequestsPerMinute)

	boolean("VECTOR_DB_ENABLED", &c.Vector.Enabled)
	str("VECTOR_DB_BACKEND", &c.Vector.Backend)
	str("PINECONE_API_KEY", &c.Vector.Pinecone.APIKey)
	str("PINECONE_INDEX", &c.Vector.Pinecone.Index)
	str("PINECONE_CLOUD", &c.Vector.Pinecone.Cloud)
	str("PINECONE_REGION", &c.Vector.Pinecone.Region)
	str("PINECONE_NAMESPACE", &c.Vector.Pinecone.Namespace)
	str("QDRANT_URL", &c.Vector.Qdrant.URL)
	str("QDRANT_API_KEY", &c.Vector.Qdrant.APIKey)
	str("QDRANT_COLLECTION", &c.Vector.Qdrant.Collection)

	c.Vector.Backend = strings.ToLower(c.Vector.Backend)
	return errors.Join(errs...)
}

// Validate checks that required settings are present and consistent.
// Vector index settings are only checked when the index is enabled.
func (c *Config) Validate() error {
	var errs []error

	if c.Embedding.APIKey == "" {
		errs = append(errs, fmt.Errorf("%w: OPENAI_API_KEY is required", ErrInvalidConfig))
	}
	if c.Embedding.Model == "" {
		errs = append(errs, fmt.Errorf("%w: EMBEDDING_MODEL must not be empty", ErrInvalidConfig))
	}
	if c.Embedding.Dimensions < 0 || c.Embedding.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("%w: embedding dimensions and rpm must not be negative", ErrInvalidConfig))
	}
	if c.CallTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: EXTERNAL_CALL_TIMEOUT must be positive", ErrInvalidConfig))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: MAX_UPLOAD_BYTES must be positive", ErrInvalidConfig))
	}

	if c.Vector.Enabled {
		switch c.Vector.Backend {
		case BackendPinecone:
			if c.Vector.Pinecone.APIKey == "" {
				errs = append(errs, fmt.Errorf("%w: PINECONE_API_KEY is required for the pinecone backend", ErrInvalidConfig))
			}
			if c.Vector.Pinecone.Index == "" {
				errs = append(errs, fmt.Errorf("%w: PINECONE_INDEX must not be empty", ErrInvalidConfig))
			}
		case BackendQdrant:
			if c.Vector.Qdrant.URL == "" {
				errs = append(errs, fmt.Errorf("%w: QDRANT_URL is required for the qdrant backend", ErrInvalidConfig))
			}
			if c.Vector.Qdrant.Collection == "" {
				errs = append(errs, fmt.Errorf("%w: QDRANT_COLLECTION must not be empty", ErrInvalidConfig))
			}
		case BackendSQLite:
		default:
			errs = append(errs, fmt.Errorf("%w: unknown VECTOR_DB_BACKEND %q (expected pinecone, qdrant or sqlite)",
				ErrInvalidConfig, c.Vector.Backend))
		}
	}

	return errors.Join(errs...)
}

// InMemoryStore reports whether the in-memory document store is selected.
func (c *Config) InMemoryStore() bool {
	return strings.EqualFold(c.DocumentStoreURL, MemoryStoreURL)
}

// DocumentStorePath returns the SQLite database path.
// A "sqlite://" or "file:" prefix on DOCUMENT_STORE_URL is removed.
func (c *Config) DocumentStorePath() string {
	url := c.DocumentStoreURL
	if url == "" {
		return filepath.Join(c.DataDir, "documents.db")
	}
	for _, prefix := range []string{"sqlite://", "file:"} {
		url = strings.TrimPrefix(url, prefix)
	}
	return url
}

// Timeout returns the per-call timeout for external collaborators.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.CallTimeout)
}
