package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jgivc/photozip/internal/adapter/httpfetch"
	"github.com/jgivc/photozip/internal/adapter/tabular"
	"github.com/jgivc/photozip/internal/config"
	httphandler "github.com/jgivc/photozip/internal/handler/http"
	repostats "github.com/jgivc/photozip/internal/repository/stats"
	"github.com/jgivc/photozip/internal/service/batch"
	"github.com/jgivc/photozip/internal/service/normalize"
	srvstats "github.com/jgivc/photozip/internal/service/stats"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout = 5 * time.Second
)

type App struct {
	cfgPath string
	cfg     *config.Config
	srv     *http.Server
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	// Stats are optional. Without a Redis URL batches still run, only the
	// aggregate counters are lost.
	var stats httphandler.StatsService
	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			panic(err)
		}

		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			panic(err)
		}

		stats = srvstats.NewStatsService(repostats.NewStatsRepository(rdb, log), log)
	}

	loader := tabular.NewLoader(&a.cfg.LoaderConfig, log)
	fetcher := httpfetch.NewFetcher(&a.cfg.FetcherConfig, log)
	normalizer := normalize.NewNormalizer(&a.cfg.NormalizerConfig, log)
	batchSrv := batch.NewBatchService(fetcher, normalizer, &a.cfg.BatchConfig, log)

	pageHandler, err := httphandler.NewUploadPageHandler(log)
	if err != nil {
		panic(err)
	}

	http.Handle("GET /{$}", pageHandler)
	http.Handle("POST /batch/{$}", httphandler.NewBatchHandler(loader, batchSrv, stats, log))

	if stats != nil {
		http.Handle("GET /stats/{$}", httphandler.NewStatsHandler(stats, log))
	}

	a.srv = &http.Server{
		Addr: a.cfg.Listen,
	}

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen))

		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.srv.Shutdown(ctx)
}
