package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/photozip/internal/common"
	"github.com/jgivc/photozip/internal/config"
	"github.com/jgivc/photozip/internal/entity"
	"github.com/jgivc/photozip/internal/storage/archive"
)

const (
	serviceName = "batch"

	extJPEG = ".jpg"
	extPNG  = ".png"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*entity.FetchResult, error)
}

type Normalizer interface {
	Normalize(raw []byte) ([]byte, bool)
}

// ProgressFunc receives the running fraction in [0,1] and a status line
// after every processed item. Calls arrive in input order.
type ProgressFunc func(fraction float64, status string)

// itemResult is the slot a worker fills for one link entry.
type itemResult struct {
	payload []byte
	ext     string
	ok      bool
}

// Service runs one batch at a time: validate, fetch, normalize and archive
// every link entry, counting outcomes. Fetching fans out over a worker pool,
// but slots are addressed by entry index so the archive keeps input order
// and progress stays monotonic.
type Service struct {
	running    atomic.Bool
	fetcher    Fetcher
	normalizer Normalizer
	cfg        *config.BatchConfig
	log        *slog.Logger
}

func NewBatchService(fetcher Fetcher, normalizer Normalizer, cfg *config.BatchConfig, log *slog.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		normalizer: normalizer,
		cfg:        cfg,
		log:        log.With(slog.String("service", serviceName)),
	}
}

func (s *Service) Run(ctx context.Context, links []entity.LinkEntry, progress ProgressFunc) (*entity.BatchResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, common.ErrBatchHasAlreadyStarted
	}
	defer s.running.Store(false)

	if len(links) < 1 {
		return nil, common.ErrNoLinks
	}

	if progress == nil {
		progress = func(float64, string) {}
	}

	startedAt := time.Now()
	batchID := uuid.NewString()
	log := s.log.With(slog.String("batch_id", batchID))
	log.Info("Start batch", slog.Int("total", len(links)))

	slots := make([]itemResult, len(links))
	ready := make([]chan struct{}, len(links))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	in := make(chan int, len(links))
	for i := range links {
		in <- i
	}
	close(in)

	for n := 0; n < s.cfg.Workers; n++ {
		go s.worker(ctx, in, links, slots, ready, log.With(slog.Int("worker_id", n)))
	}

	ar := archive.NewBuilder()
	summary := entity.BatchSummary{ID: batchID, Total: len(links), StartedAt: startedAt}

	for i, link := range links {
		<-ready[i]

		if slots[i].ok {
			if err := ar.Add(link.Index, slots[i].ext, slots[i].payload); err != nil {
				return nil, fmt.Errorf("cannot add archive entry: %w", err)
			}

			summary.Succeeded++
		} else {
			summary.Failed++
		}

		slots[i] = itemResult{}

		progress(float64(i+1)/float64(len(links)),
			fmt.Sprintf("Processing %d of %d: %s", i+1, len(links), link.RawValue))
	}

	blob, err := ar.Seal()
	if err != nil {
		return nil, fmt.Errorf("cannot seal archive: %w", err)
	}

	summary.Elapsed = time.Since(startedAt)
	log.Info("Batch done",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed))

	return &entity.BatchResult{Archive: blob, Summary: summary}, nil
}

// worker pulls entry indexes from in and fills the matching slot. Closing
// the ready channel publishes the slot to the collector in Run.
func (s *Service) worker(ctx context.Context, in chan int, links []entity.LinkEntry,
	slots []itemResult, ready []chan struct{}, log *slog.Logger) {
	for i := range in {
		slots[i] = s.processOne(ctx, links[i], log)
		close(ready[i])
	}
}

// processOne runs the per-item pipeline. Every failure is absorbed here:
// an invalid link or a fetch error marks the slot failed, a normalization
// problem falls back to the fetched bytes and still counts as success.
func (s *Service) processOne(ctx context.Context, link entity.LinkEntry, log *slog.Logger) itemResult {
	if !Fetchable(link.RawValue) {
		log.Warn("Skip non-fetchable value", slog.Int("index", link.Index))

		return itemResult{}
	}

	res, err := s.fetcher.Fetch(ctx, link.RawValue)
	if err != nil {
		log.Warn("Cannot fetch link", slog.Int("index", link.Index), slog.Any("error", err))

		return itemResult{}
	}

	payload, normalized := s.normalizer.Normalize(res.Body)

	ext := extJPEG
	if !normalized && strings.Contains(res.ContentType, "png") {
		ext = extPNG
	}

	return itemResult{payload: payload, ext: ext, ok: true}
}
