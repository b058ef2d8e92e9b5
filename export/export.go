// Package export writes held feed pages to CSV and JSON lines files.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aluiziolira/go-live-dashboard/models"
)

// Writer appends records of one type to an output.
type Writer[T any] interface {
	Write(items []T) error
	Close() error
}

// Schema maps a record type to CSV columns.
type Schema[T any] struct {
	Header []string
	Row    func(T) []string
}

// ArticleSchema is the CSV layout of an article.
var ArticleSchema = Schema[models.Article]{
	Header: []string{"id", "title", "author", "link", "score", "comments", "scraped_at", "published_at"},
	Row: func(a models.Article) []string {
		published := ""
		if a.PublishedAt != nil {
			published = a.PublishedAt.Format(time.RFC3339)
		}
		return []string{
			a.ID,
			a.Title,
			a.Author,
			a.Link,
			strconv.Itoa(a.Score),
			strconv.Itoa(a.Comments),
			a.ScrapedAt.Format(time.RFC3339),
			published,
		}
	},
}

// CryptoSchema is the CSV layout of a market snapshot.
var CryptoSchema = Schema[models.CryptoSnapshot]{
	Header: []string{"id", "rank", "symbol", "name", "price", "market_cap", "volume_24h", "change_24h", "timestamp"},
	Row: func(c models.CryptoSnapshot) []string {
		return []string{
			c.ID,
			strconv.Itoa(c.Rank),
			c.Symbol,
			c.Name,
			formatFloat(c.Price),
			formatFloat(c.MarketCap),
			formatFloat(c.Volume24h),
			formatFloat(c.Change24h),
			c.Timestamp.Format(time.RFC3339),
		}
	},
}

// Format names an output format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatBoth  Format = "both"
)

// ParseFormat accepts csv, jsonl (or json) and both.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "json":
		return FormatJSONL, nil
	case "both":
		return FormatBoth, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, jsonl or both)", s)
}

// Open creates a writer for format. base is the output path without an
// extension; the extension follows the format.
func Open[T any](format Format, base string, schema Schema[T]) (Writer[T], error) {
	var (
		w   Writer[T]
		err error
	)
	switch format {
	case FormatCSV:
		w, err = NewCSVWriter(base+".csv", schema)
	case FormatJSONL:
		w, err = NewJSONWriter[T](base + ".jsonl")
	case FormatBoth:
		w, err = NewDualWriter(base+".csv", base+".jsonl", schema)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// CSVWriter writes records as CSV rows after a header row.
type CSVWriter[T any] struct {
	file   *os.File
	writer *csv.Writer
	schema Schema[T]
	mu     sync.Mutex
}

// NewCSVWriter creates filename and writes the header row.
func NewCSVWriter[T any](filename string, schema Schema[T]) (*CSVWriter[T], error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(schema.Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter[T]{file: f, writer: writer, schema: schema}, nil
}

// Write appends items.
func (cw *CSVWriter[T]) Write(items []T) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, item := range items {
		if err := cw.writer.Write(cw.schema.Row(item)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (cw *CSVWriter[T]) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// JSONWriter writes one JSON object per line.
type JSONWriter[T any] struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates filename.
func NewJSONWriter[T any](filename string) (*JSONWriter[T], error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter[T]{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends items.
func (jw *JSONWriter[T]) Write(items []T) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, item := range items {
		if err := jw.encoder.Encode(item); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (jw *JSONWriter[T]) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// DualWriter writes every batch to a CSV and a JSON lines file.
type DualWriter[T any] struct {
	csv  *CSVWriter[T]
	json *JSONWriter[T]
}

// NewDualWriter creates both files.
func NewDualWriter[T any](csvFilename, jsonFilename string, schema Schema[T]) (*DualWriter[T], error) {
	csvWriter, err := NewCSVWriter(csvFilename, schema)
	if err != nil {
		return nil, err
	}
	jsonWriter, err := NewJSONWriter[T](jsonFilename)
	if err != nil {
		csvWriter.Close()
		return nil, err
	}
	return &DualWriter[T]{csv: csvWriter, json: jsonWriter}, nil
}

// Write appends items to both files.
func (dw *DualWriter[T]) Write(items []T) error {
	if err := dw.csv.Write(items); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := dw.json.Write(items); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// Close closes both files, reporting every failure.
func (dw *DualWriter[T]) Close() error {
	var errs []error
	if err := dw.csv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("csv: %w", err))
	}
	if err := dw.json.Close(); err != nil {
		errs = append(errs, fmt.Errorf("json: %w", err))
	}
	return errors.Join(errs...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
