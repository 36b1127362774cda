package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jgivc/photozip/internal/adapter/tabular"
	"github.com/jgivc/photozip/internal/common"
	"github.com/jgivc/photozip/internal/entity"
	"github.com/jgivc/photozip/internal/service/batch"
)

const (
	defaultColumnName = "Image Links"
	archiveFileName   = "downloaded_photos.zip"
	maxUploadMemory   = 16 << 20
	headerTotal       = "X-Batch-Total"
	headerSucceeded   = "X-Batch-Succeeded"
	headerFailed      = "X-Batch-Failed"
)

type TabularLoader interface {
	LoadReader(r io.Reader, name string) (*entity.Table, error)
}

type BatchRunner interface {
	Run(ctx context.Context, links []entity.LinkEntry, progress batch.ProgressFunc) (*entity.BatchResult, error)
}

type StatsService interface {
	Record(ctx context.Context, summary *entity.BatchSummary)
	GetTotals(ctx context.Context) (*entity.BatchTotals, error)
}

// NewBatchHandler accepts a multipart upload ("file" plus an optional
// "column" field), runs the batch and responds with the zip archive.
// The outcome counters travel in response headers. Stats recording is
// optional: pass nil when no stats backend is configured.
func NewBatchHandler(loader TabularLoader, runner BatchRunner, stats StatsService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "BatchHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)

			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Missing file field", http.StatusBadRequest)

			return
		}
		defer file.Close()

		column := r.FormValue("column")
		if column == "" {
			column = defaultColumnName
		}

		table, err := loader.LoadReader(file, header.Filename)
		if err != nil {
			log.Error("Cannot load table", slog.String("filename", header.Filename), slog.Any("error", err))

			switch {
			case errors.Is(err, common.ErrUnsupportedFileFormat):
				http.Error(w, "Unsupported file format", http.StatusBadRequest)
			default:
				http.Error(w, "Cannot read uploaded file", http.StatusBadRequest)
			}

			return
		}

		links, err := tabular.ExtractColumn(table, column)
		if err != nil {
			http.Error(w, fmt.Sprintf("Column %q not found", column), http.StatusBadRequest)

			return
		}

		res, err := runner.Run(r.Context(), links, func(fraction float64, status string) {
			log.Info("Batch progress", slog.Float64("fraction", fraction), slog.String("status", status))
		})
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNoLinks):
				http.Error(w, "No links found in column", http.StatusBadRequest)
			case errors.Is(err, common.ErrBatchHasAlreadyStarted):
				http.Error(w, "A batch is already running", http.StatusConflict)
			default:
				http.Error(w, "Cannot run batch", http.StatusInternalServerError)
			}

			return
		}

		if stats != nil {
			stats.Record(r.Context(), &res.Summary)
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveFileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Archive)))
		w.Header().Set(headerTotal, strconv.Itoa(res.Summary.Total))
		w.Header().Set(headerSucceeded, strconv.Itoa(res.Summary.Succeeded))
		w.Header().Set(headerFailed, strconv.Itoa(res.Summary.Failed))

		w.Write(res.Archive)
	}
}

func NewStatsHandler(srv StatsService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "StatsHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := srv.GetTotals(r.Context())
		if err != nil {
			http.Error(w, "Cannot get stats", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(totals); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
