package httpfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jgivc/photozip/internal/common"
	"github.com/jgivc/photozip/internal/config"
	"github.com/jgivc/photozip/internal/entity"
)

// Fetcher retrieves raw image bytes over HTTP. One GET per call, bounded by
// the client timeout, no retries. A transient failure is terminal for the item.
type Fetcher struct {
	client *http.Client
	cfg    *config.FetcherConfig
	log    *slog.Logger
}

func NewFetcher(cfg *config.FetcherConfig, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: time.Duration(cfg.Timeout)},
		cfg:    cfg,
		log:    log.With(slog.String("item", "Fetcher")),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*entity.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}

	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", common.ErrBadStatus, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("cannot read body of %s: %w", url, err)
	}

	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: %s", common.ErrBodyTooLarge, url)
	}

	return &entity.FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
