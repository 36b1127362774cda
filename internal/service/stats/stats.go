package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/photozip/internal/entity"
)

const (
	serviceName = "stats"
)

type StatsRepository interface {
	SaveSummary(ctx context.Context, summary *entity.BatchSummary) error
	GetTotals(ctx context.Context) (*entity.BatchTotals, error)
}

type statsService struct {
	repo StatsRepository
	log  *slog.Logger
}

func NewStatsService(repo StatsRepository, log *slog.Logger) *statsService {
	return &statsService{
		repo: repo,
		log:  log.With(slog.String("service", serviceName)),
	}
}

// Record is fire-and-forget from the batch's point of view: a stats failure
// must not fail a finished batch, so it only logs.
func (s *statsService) Record(ctx context.Context, summary *entity.BatchSummary) {
	if err := s.repo.SaveSummary(ctx, summary); err != nil {
		s.log.Error("Cannot record batch summary", slog.String("batch_id", summary.ID), slog.Any("error", err))
	}
}

func (s *statsService) GetTotals(ctx context.Context) (*entity.BatchTotals, error) {
	totals, err := s.repo.GetTotals(ctx)
	if err != nil {
		s.log.Error("Cannot get batch totals", slog.Any("error", err))

		return nil, fmt.Errorf("cannot get batch totals: %w", err)
	}

	return totals, nil
}
