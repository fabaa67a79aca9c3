package excel

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"cordex/adapters/datareadiness/coercer"
	"cordex/domain/table"
	"cordex/internal/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DataReader loads CSV and Excel files into a typed table
type DataReader struct {
	config  ReaderConfig
	coercer *coercer.TypeCoercer
	logger  *zap.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig, logger *zap.Logger) *DataReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger.Named("reader"),
	}
}

// Coercer exposes the reader's coercion rules so derivations parse cells the same way
func (r *DataReader) Coercer() *coercer.TypeCoercer {
	return r.coercer
}

// Load reads the file at path. It returns the table and the sha256 digest of the
// bytes read. Any failure to open or parse the file is a DATA_SOURCE_ERROR.
func (r *DataReader) Load(ctx context.Context, path string) (*table.Table, string, error) {
	fileType := detectFileType(path)
	r.logger.Info("reading data file", zap.String("path", path), zap.String("type", fileType))

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", errors.DataSource(path, err)
	}
	defer file.Close()

	digest := sha256.New()
	readStart := time.Now()

	var rows [][]string
	switch fileType {
	case "csv":
		rows, err = r.readCSVRows(io.TeeReader(file, digest))
	case "xlsx":
		rows, err = r.readExcelRows(file, digest)
	default:
		err = fmt.Errorf("unsupported file type: %s", fileType)
	}
	if err != nil {
		return nil, "", errors.DataSource(path, err)
	}
	r.logger.Debug("file read",
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(readStart)))

	if len(rows) == 0 {
		return nil, "", errors.DataSource(path, fmt.Errorf("%s file has no header row", strings.ToUpper(fileType)))
	}

	tbl, err := r.processRows(ctx, rows)
	if err != nil {
		return nil, "", errors.DataSource(path, err)
	}

	rowCount, colCount := tbl.Shape()
	r.logger.Info("data file processed",
		zap.String("path", path),
		zap.Int("rows", rowCount),
		zap.Int("columns", colCount),
		zap.Duration("elapsed", time.Since(readStart)))

	return tbl, hex.EncodeToString(digest.Sum(nil)), nil
}

func detectFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv", ".tsv", ".txt", "":
		return "csv"
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// readCSVRows reads all records. Rows may be ragged; quoting is lenient.
func (r *DataReader) readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false
	if r.config.Delimiter != 0 {
		reader.Comma = r.config.Delimiter
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		// A UTF-8 byte order mark would otherwise end up in the first header.
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// readExcelRows reads the configured sheet, or the first sheet of the workbook
func (r *DataReader) readExcelRows(file io.Reader, digest hash.Hash) ([][]string, error) {
	f, err := excelize.OpenReader(io.TeeReader(file, digest))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// processRows infers a type per column from all of its cells, then coerces every cell
func (r *DataReader) processRows(ctx context.Context, rows [][]string) (*table.Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		// Duplicate headers get a numeric suffix so each column stays addressable.
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		headers[i] = name
	}

	data := rows[1:]
	columns := make([]*table.Column, len(headers))
	raw := make([]string, len(data))

	for j, header := range headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, row := range data {
			if j < len(row) {
				raw[i] = sanitize(row[j])
			} else {
				raw[i] = ""
			}
		}

		colType, analysis := r.coercer.InferColumnType(raw)
		values := make([]table.Value, len(raw))
		for i, cell := range raw {
			values[i] = r.coercer.CoerceAs(cell, colType)
		}
		columns[j] = &table.Column{Name: header, Type: colType, Values: values}

		r.logger.Debug("column typed",
			zap.String("column", header),
			zap.String("type", string(colType)),
			zap.Int("valid", analysis.ValidCount),
			zap.Float64("numeric_ratio", analysis.NumericRatio))
	}

	return table.New(columns...)
}

// sanitize replaces invalid UTF-8 so a broken cell cannot poison downstream text handling
func sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}
