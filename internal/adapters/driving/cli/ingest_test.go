package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	path := writeTempFile(t, "notes.txt", "hello")

	out, err := runRoot(t, "ingest", path, "--strategy", "fixed")
	ingestStrategy = domain.DefaultChunkStrategy.String()

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", testIngest.file.Name)
	assert.Equal(t, []byte("hello"), testIngest.file.Content)
	assert.Equal(t, domain.StrategyFixed, testIngest.strategy)
	assert.Contains(t, out, "Ingested notes.txt")
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "avg 750 characters")
}

func TestIngestCmd_InvalidStrategy(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	path := writeTempFile(t, "notes.txt", "hello")

	_, err := runRoot(t, "ingest", path, "--strategy", "semantic")
	ingestStrategy = domain.DefaultChunkStrategy.String()

	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runRoot(t, "ingest", filepath.Join(t.TempDir(), "missing.txt"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testIngest.err = domain.ErrEmbedding
	path := writeTempFile(t, "notes.txt", "hello")

	_, err := runRoot(t, "ingest", path)

	assert.ErrorIs(t, err, domain.ErrEmbedding)
}
