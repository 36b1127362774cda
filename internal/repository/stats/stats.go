package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jgivc/photozip/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	KeyTotals = "bs:totals" // HASH. Aggregate counters across all batches.
	KeyBatch  = "bs:batch"  // HASH per batch, expires.
	KeySep    = ":"

	FieldBatches   = "batches"
	FieldTotal     = "total"
	FieldSucceeded = "succeeded"
	FieldFailed    = "failed"

	defaultBatchExpiration = 24 * time.Hour
)

type statsRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

func NewStatsRepository(cl *redis.Client, log *slog.Logger) *statsRepository {
	return &statsRepository{
		cl:  cl,
		log: log.With(slog.String("item", "StatsRepository")),
	}
}

// SaveSummary folds one finished batch into the aggregate counters and keeps
// the batch's own numbers around for a day.
func (r *statsRepository) SaveSummary(ctx context.Context, summary *entity.BatchSummary) error {
	pipe := r.cl.Pipeline()

	pipe.HIncrBy(ctx, KeyTotals, FieldBatches, 1)
	pipe.HIncrBy(ctx, KeyTotals, FieldTotal, int64(summary.Total))
	pipe.HIncrBy(ctx, KeyTotals, FieldSucceeded, int64(summary.Succeeded))
	pipe.HIncrBy(ctx, KeyTotals, FieldFailed, int64(summary.Failed))

	batchKey := KeyBatch + KeySep + summary.ID
	pipe.HSet(ctx, batchKey,
		FieldTotal, summary.Total,
		FieldSucceeded, summary.Succeeded,
		FieldFailed, summary.Failed,
	)
	pipe.Expire(ctx, batchKey, defaultBatchExpiration)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cannot save batch summary: %w", err)
	}

	return nil
}

func (r *statsRepository) GetTotals(ctx context.Context) (*entity.BatchTotals, error) {
	fields, err := r.cl.HGetAll(ctx, KeyTotals).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get totals: %w", err)
	}

	totals := &entity.BatchTotals{}
	for field, value := range fields {
		counter, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			r.log.Error("Cannot convert counter to int", slog.String("field", field), slog.Any("error", err))

			continue
		}

		switch field {
		case FieldBatches:
			totals.Batches = counter
		case FieldTotal:
			totals.Total = counter
		case FieldSucceeded:
			totals.Succeeded = counter
		case FieldFailed:
			totals.Failed = counter
		}
	}

	return totals, nil
}
