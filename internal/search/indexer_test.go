package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tahskajuha/KEDB-capstone/config"
	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// stubRepo serves a single entry; unimplemented methods panic via the
// embedded nil interface.
type stubRepo struct {
	repository.Repository
	entry *entities.Entry
}

func (s *stubRepo) GetEntryWithRelations(_ context.Context, id uuid.UUID) (*entities.Entry, error) {
	if s.entry == nil || s.entry.ID != id {
		return nil, entities.ErrEntryNotFound
	}
	return s.entry, nil
}

func (s *stubRepo) SaveEntryEmbedding(_ context.Context, _ entities.EntryEmbedding) error {
	return nil
}

type meiliRequest struct {
	method string
	path   string
	docs   []entryDocument
}

func TestIndexerUpsertAndDelete(t *testing.T) {
	defer goleak.VerifyNone(t)

	received := make(chan meiliRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := meiliRequest{method: r.Method, path: r.URL.Path}
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req.docs))
		}
		received <- req
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	entryID := uuid.New()
	repo := &stubRepo{entry: &entities.Entry{
		ID:            entryID,
		Title:         "API gateway returns 502 under load",
		Description:   "Upstream connections are dropped when the pool is exhausted.",
		Severity:      entities.SeverityHigh,
		WorkflowState: entities.StatePublished,
		CreatedBy:     "alice",
		CreatedAt:     time.Now(),
		Symptoms: []entities.EntrySymptom{
			{Description: "502 responses spike above 5%", OrderIndex: 0},
		},
	}}

	ix := New(zap.NewNop().Sugar(), repo, config.SearchConfig{
		MeilisearchURL: srv.URL,
		EmbeddingModel: "text-embedding-3-small",
		QueueSize:      4,
		RequestTimeout: time.Second,
	})
	ix.Start(context.Background())

	ix.EnqueueIndex(entryID)

	select {
	case req := <-received:
		require.Equal(t, http.MethodPost, req.method)
		require.Equal(t, "/indexes/entries/documents", req.path)
		require.Len(t, req.docs, 1)
		require.Equal(t, entryID.String(), req.docs[0].ID)
		require.Equal(t, "published", req.docs[0].WorkflowState)
		require.Contains(t, req.docs[0].Symptoms, "502 responses")
	case <-time.After(5 * time.Second):
		t.Fatal("no index request received")
	}

	ix.EnqueueDelete(entryID)

	select {
	case req := <-received:
		require.Equal(t, http.MethodDelete, req.method)
		require.Equal(t, "/indexes/entries/documents/"+entryID.String(), req.path)
	case <-time.After(5 * time.Second):
		t.Fatal("no delete request received")
	}

	require.NoError(t, ix.Stop())
}

func TestIndexerMissingEntrySkipped(t *testing.T) {
	defer goleak.VerifyNone(t)

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ix := New(zap.NewNop().Sugar(), &stubRepo{}, config.SearchConfig{
		MeilisearchURL: srv.URL,
		QueueSize:      4,
		RequestTimeout: time.Second,
	})
	ix.Start(context.Background())

	ix.EnqueueIndex(uuid.New())
	require.NoError(t, ix.Stop())

	require.Zero(t, hits)
}

func TestIndexerQueueFullDrops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ix := New(zap.NewNop().Sugar(), &stubRepo{}, config.SearchConfig{
		QueueSize:      1,
		RequestTimeout: time.Second,
	})
	// Worker not started: the second enqueue finds the queue full and is
	// dropped instead of blocking.
	ix.EnqueueIndex(uuid.New())
	ix.EnqueueIndex(uuid.New())

	ix.Start(context.Background())
	require.NoError(t, ix.Stop())
}
