package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/photozip/internal/common"
	"github.com/jgivc/photozip/internal/config"
	"github.com/jgivc/photozip/internal/entity"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// Loader reads an uploaded tabular file (csv or xlsx) into an entity.Table.
// The file system is injected so tests can run against an in-memory fs.
type Loader struct {
	fs  afero.Fs
	cfg *config.LoaderConfig
	log *slog.Logger
}

func NewLoader(cfg *config.LoaderConfig, log *slog.Logger) *Loader {
	return NewLoaderWithFS(afero.NewOsFs(), cfg, log)
}

func NewLoaderWithFS(fs afero.Fs, cfg *config.LoaderConfig, log *slog.Logger) *Loader {
	return &Loader{
		fs:  fs,
		cfg: cfg,
		log: log.With(slog.String("item", "TabularLoader")),
	}
}

func (l *Loader) Load(fileName string) (*entity.Table, error) {
	f, err := l.fs.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	return l.LoadReader(f, fileName)
}

// LoadReader parses r into a table. The format is chosen by the extension
// of name: .csv goes through encoding/csv, .xlsx/.xlsm through excelize.
func (l *Loader) LoadReader(r io.Reader, name string) (*entity.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return l.loadCSV(r)
	case ".xlsx", ".xlsm":
		return l.loadExcel(r)
	}

	return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFileFormat, filepath.Ext(name))
}

func (l *Loader) loadCSV(r io.Reader) (*entity.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}

	table := &entity.Table{Header: header}
	for len(table.Rows) < l.cfg.MaxRows {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read csv row: %w", err)
		}

		table.Rows = append(table.Rows, padRow(row, len(header)))
	}

	return table, nil
}

func (l *Loader) loadExcel(r io.Reader) (*entity.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 1 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %s: %w", sheets[0], err)
	}

	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	table := &entity.Table{Header: rows[0]}
	for _, row := range rows[1:] {
		if len(table.Rows) >= l.cfg.MaxRows {
			break
		}

		table.Rows = append(table.Rows, padRow(row, len(table.Header)))
	}

	return table, nil
}

// ExtractColumn returns the values of the named column, empty cells dropped,
// with 1-based indexes assigned after dropping. Column names are matched
// with surrounding spaces stripped and case folded.
func ExtractColumn(table *entity.Table, columnName string) ([]entity.LinkEntry, error) {
	target := strings.ToLower(strings.TrimSpace(columnName))

	col := -1
	for i, name := range table.Header {
		if strings.ToLower(strings.TrimSpace(name)) == target {
			col = i
			break
		}
	}

	if col < 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrColumnNotFound, columnName)
	}

	var links []entity.LinkEntry
	for _, row := range table.Rows {
		value := row[col]
		if strings.TrimSpace(value) == "" {
			continue
		}

		links = append(links, entity.LinkEntry{Index: len(links) + 1, RawValue: value})
	}

	return links, nil
}

func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}

	padded := make([]string, width)
	copy(padded, row)

	return padded
}
