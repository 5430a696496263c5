// Package search keeps the Meilisearch index and entry embeddings in sync
// with the knowledge base. Indexing is asynchronous and best-effort: a
// failure is logged and dropped, never surfaced to the request that
// triggered it.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/Tahskajuha/KEDB-capstone/config"
	"github.com/Tahskajuha/KEDB-capstone/internal/entities"
	"github.com/Tahskajuha/KEDB-capstone/internal/repository"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type taskKind int

const (
	taskIndex taskKind = iota
	taskDelete
)

type task struct {
	kind    taskKind
	entryID uuid.UUID
}

// entryDocument is the shape pushed to Meilisearch.
type entryDocument struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Symptoms      string `json:"symptoms"`
	Severity      string `json:"severity"`
	WorkflowState string `json:"workflow_state"`
	Environment   string `json:"environment"`
	RootCause     string `json:"root_cause"`
	CreatedBy     string `json:"created_by"`
	CreatedAt     string `json:"created_at"`
}

// Indexer runs the background indexing worker.
type Indexer struct {
	log    *zap.SugaredLogger
	repo   repository.Repository
	cfg    config.SearchConfig
	meili  *meiliClient
	openai *openai.Client
	tasks  chan task
	group  errgroup.Group
}

// New constructs the indexer. Meilisearch and embedding generation are each
// optional and skipped when unconfigured.
func New(log *zap.SugaredLogger, repo repository.Repository, cfg config.SearchConfig) *Indexer {
	ix := &Indexer{
		log:   log.Named("search.indexer"),
		repo:  repo,
		cfg:   cfg,
		tasks: make(chan task, cfg.QueueSize),
	}
	if cfg.MeilisearchURL != "" {
		ix.meili = newMeiliClient(cfg.MeilisearchURL, cfg.MeilisearchKey, cfg.RequestTimeout)
	}
	if cfg.OpenAIKey != "" {
		ix.openai = openai.NewClient(cfg.OpenAIKey)
	}
	return ix
}

// Start launches the worker goroutine consuming queued tasks.
func (ix *Indexer) Start(ctx context.Context) {
	ix.group.Go(func() error {
		for t := range ix.tasks {
			ix.handle(ctx, t)
		}
		return nil
	})
	ix.log.Infow("indexing worker started",
		"meilisearch", ix.meili != nil, "embeddings", ix.openai != nil, "queue", cap(ix.tasks))
}

// Stop drains the queue and waits for the worker to finish.
func (ix *Indexer) Stop() error {
	close(ix.tasks)
	return ix.group.Wait()
}

// EnqueueIndex schedules an entry for (re)indexing. Drops the task when the
// queue is full rather than blocking the request path.
func (ix *Indexer) EnqueueIndex(entryID uuid.UUID) {
	ix.enqueue(task{kind: taskIndex, entryID: entryID})
}

// EnqueueDelete schedules removal of an entry from the index.
func (ix *Indexer) EnqueueDelete(entryID uuid.UUID) {
	ix.enqueue(task{kind: taskDelete, entryID: entryID})
}

func (ix *Indexer) enqueue(t task) {
	select {
	case ix.tasks <- t:
	default:
		ix.log.Warnw("indexing queue full, dropping task", "entry_id", t.entryID, "kind", t.kind)
	}
}

func (ix *Indexer) handle(ctx context.Context, t task) {
	ctx, cancel := context.WithTimeout(ctx, ix.cfg.RequestTimeout)
	defer cancel()

	switch t.kind {
	case taskIndex:
		ix.indexEntry(ctx, t.entryID)
	case taskDelete:
		ix.deleteEntry(ctx, t.entryID)
	}
}

func (ix *Indexer) indexEntry(ctx context.Context, entryID uuid.UUID) {
	entry, err := ix.repo.GetEntryWithRelations(ctx, entryID)
	if err != nil {
		ix.log.Warnw("entry not available for indexing", "entry_id", entryID, "error", err)
		return
	}

	if ix.meili != nil {
		doc := buildDocument(entry)
		if err := ix.meili.UpsertDocuments(ctx, entriesIndex, []entryDocument{doc}); err != nil {
			ix.log.Errorw("failed to index entry", "entry_id", entryID, "error", err)
		} else {
			ix.log.Infow("entry indexed", "entry_id", entryID)
		}
	}

	if ix.openai != nil {
		ix.embedEntry(ctx, entry)
	}
}

func (ix *Indexer) embedEntry(ctx context.Context, entry *entities.Entry) {
	resp, err := ix.openai.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{embeddingText(entry)},
		Model: openai.EmbeddingModel(ix.cfg.EmbeddingModel),
	})
	if err != nil {
		ix.log.Errorw("failed to generate embedding", "entry_id", entry.ID, "error", err)
		return
	}
	if len(resp.Data) == 0 {
		ix.log.Errorw("embedding response empty", "entry_id", entry.ID)
		return
	}

	vector := resp.Data[0].Embedding
	if err := ix.repo.SaveEntryEmbedding(ctx, entities.EntryEmbedding{
		EntryID:   entry.ID,
		ModelName: ix.cfg.EmbeddingModel,
		Dimension: len(vector),
		Embedding: vector,
	}); err != nil {
		ix.log.Errorw("failed to save embedding", "entry_id", entry.ID, "error", err)
		return
	}
	ix.log.Infow("embedding generated", "entry_id", entry.ID, "dimension", len(vector))
}

func (ix *Indexer) deleteEntry(ctx context.Context, entryID uuid.UUID) {
	if ix.meili == nil {
		return
	}
	if err := ix.meili.DeleteDocument(ctx, entriesIndex, entryID.String()); err != nil {
		ix.log.Errorw("failed to delete entry from index", "entry_id", entryID, "error", err)
		return
	}
	ix.log.Infow("entry removed from index", "entry_id", entryID)
}

func buildDocument(entry *entities.Entry) entryDocument {
	doc := entryDocument{
		ID:            entry.ID.String(),
		Title:         entry.Title,
		Description:   entry.Description,
		Symptoms:      symptomsText(entry.Symptoms),
		Severity:      string(entry.Severity),
		WorkflowState: string(entry.WorkflowState),
		CreatedBy:     entry.CreatedBy,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.Environment != nil {
		doc.Environment = *entry.Environment
	}
	if entry.RootCause != nil {
		doc.RootCause = *entry.RootCause
	}
	return doc
}

func embeddingText(entry *entities.Entry) string {
	var b strings.Builder
	b.WriteString(entry.Title)
	b.WriteString("\n\n")
	b.WriteString(entry.Description)
	if len(entry.Symptoms) > 0 {
		b.WriteString("\n\nSymptoms:\n")
		b.WriteString(symptomsText(entry.Symptoms))
	}
	return b.String()
}

func symptomsText(symptoms []entities.EntrySymptom) string {
	parts := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		parts = append(parts, s.Description)
	}
	return strings.Join(parts, " ")
}
