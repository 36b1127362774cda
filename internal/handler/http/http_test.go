package httphandler

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jgivc/photozip/internal/adapter/tabular"
	"github.com/jgivc/photozip/internal/config"
	"github.com/jgivc/photozip/internal/entity"
	"github.com/jgivc/photozip/internal/service/batch"
	"github.com/jgivc/photozip/internal/storage/archive"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	gotLinks []entity.LinkEntry
}

func (r *stubRunner) Run(_ context.Context, links []entity.LinkEntry, progress batch.ProgressFunc) (*entity.BatchResult, error) {
	r.gotLinks = links

	ar := archive.NewBuilder()
	summary := entity.BatchSummary{ID: "test", Total: len(links)}

	for _, link := range links {
		if !batch.Fetchable(link.RawValue) {
			summary.Failed++
			continue
		}

		if err := ar.Add(link.Index, ".jpg", []byte(link.RawValue)); err != nil {
			return nil, err
		}
		summary.Succeeded++
	}

	if progress != nil {
		progress(1, "done")
	}

	blob, err := ar.Seal()
	if err != nil {
		return nil, err
	}

	return &entity.BatchResult{Archive: blob, Summary: summary}, nil
}

type stubStats struct {
	recorded []*entity.BatchSummary
}

func (s *stubStats) Record(_ context.Context, summary *entity.BatchSummary) {
	s.recorded = append(s.recorded, summary)
}

func (s *stubStats) GetTotals(_ context.Context) (*entity.BatchTotals, error) {
	return &entity.BatchTotals{Batches: 2, Total: 8, Succeeded: 6, Failed: 2}, nil
}

func newTestLoader(t *testing.T) *tabular.Loader {
	t.Helper()

	cfg := &config.Config{}
	cfg.SetDefaults()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return tabular.NewLoaderWithFS(afero.NewMemMapFs(), &cfg.LoaderConfig, log)
}

func multipartUpload(t *testing.T, fileName, content, column string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)

	if column != "" {
		require.NoError(t, mw.WriteField("column", column))
	}

	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestBatchHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := &stubRunner{}
	stats := &stubStats{}

	handler := NewBatchHandler(newTestLoader(t), runner, stats, log)

	csv := "Name,Image Links\na,http://x/1.jpg\nb,not-a-url\nc,http://x/2.jpg\n"
	body, contentType := multipartUpload(t, "links.csv", csv, "image links")

	req := httptest.NewRequest(http.MethodPost, "/batch/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	require.Equal(t, "3", rec.Header().Get(headerTotal))
	require.Equal(t, "2", rec.Header().Get(headerSucceeded))
	require.Equal(t, "1", rec.Header().Get(headerFailed))

	require.Len(t, runner.gotLinks, 3)
	require.Len(t, stats.recorded, 1)

	blob := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	require.Equal(t, "image_001.jpg", zr.File[0].Name)
	require.Equal(t, "image_003.jpg", zr.File[1].Name)
}

func TestBatchHandlerColumnNotFound(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewBatchHandler(newTestLoader(t), &stubRunner{}, nil, log)

	body, contentType := multipartUpload(t, "links.csv", "a,b\n1,2\n", "Photos")

	req := httptest.NewRequest(http.MethodPost, "/batch/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchHandlerUnsupportedFormat(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewBatchHandler(newTestLoader(t), &stubRunner{}, nil, log)

	body, contentType := multipartUpload(t, "links.xlsb", "data", "")

	req := httptest.NewRequest(http.MethodPost, "/batch/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchHandlerMissingFile(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewBatchHandler(newTestLoader(t), &stubRunner{}, nil, log)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("column", "Image Links"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/batch/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewStatsHandler(&stubStats{}, log)

	req := httptest.NewRequest(http.MethodGet, "/stats/", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"batches":2,"total":8,"succeeded":6,"failed":2}`, rec.Body.String())
}

func TestUploadPageHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler, err := NewUploadPageHandler(log)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<title>Bulk Photo Downloader</title>")
	require.Contains(t, rec.Body.String(), `name="column"`)
}
