package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ingest service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Document: &mockDocumentService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := newTestServer(&mockIngestService{}, &mockDocumentService{})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports returns error", func(t *testing.T) {
		err := (&Ports{}).Validate()
		assert.ErrorIs(t, err, ErrMissingIngestService)
	})

	t.Run("missing document service returns error", func(t *testing.T) {
		err := (&Ports{Ingest: &mockIngestService{}}).Validate()
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Ingest:   &mockIngestService{},
			Document: &mockDocumentService{},
		}
		assert.NoError(t, ports.Validate())
	})
}
