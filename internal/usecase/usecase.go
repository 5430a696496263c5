package usecase

import (
	"context"
	"time"

	"github.com/Tahskajuha/KEDB-capstone/internal/repository"
	"github.com/Tahskajuha/KEDB-capstone/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	EntryUsecaseInterface
	ReviewUsecaseInterface
	SolutionUsecaseInterface
	TagUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, timeout time.Duration, index domain.IndexQueue) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, index)
}
