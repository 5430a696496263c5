package domain

import (
	"context"
	"time"

	"github.com/Tahskajuha/KEDB-capstone/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndexQueue accepts entries for asynchronous search indexing. Enqueueing
// never blocks the caller and never fails the calling request.
type IndexQueue interface {
	EnqueueIndex(entryID uuid.UUID)
	EnqueueDelete(entryID uuid.UUID)
}

// NopIndexQueue drops all indexing requests; used when search is disabled.
type NopIndexQueue struct{}

func (NopIndexQueue) EnqueueIndex(uuid.UUID)  {}
func (NopIndexQueue) EnqueueDelete(uuid.UUID) {}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	timeout time.Duration
	index   IndexQueue
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	index IndexQueue,
) *Usecase {
	if index == nil {
		index = NopIndexQueue{}
	}
	return &Usecase{
		ctx:     ctx,
		log:     log,
		repo:    repo,
		timeout: timeout,
		index:   index,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
