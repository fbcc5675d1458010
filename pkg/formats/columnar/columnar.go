// Package columnar writes flat rows to columnar storage formats
package columnar

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/nimbus/pkg/schema"
)

// Format represents a columnar storage format
type Format string

const (
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Arrow is Apache Arrow IPC file format
	Arrow Format = "arrow"
)

// Writer provides columnar format writing capabilities. Rows are the flat
// mappings produced by the flatten package; their keys are matched against
// the schema's column names, missing keys become nulls.
type Writer interface {
	// WriteRow writes a single flat row
	WriteRow(row map[string]interface{}) error
	// WriteRows writes a batch of flat rows
	WriteRows(rows []map[string]interface{}) error
	// Flush flushes any buffered data
	Flush() error
	// Close flushes and finalizes the output
	Close() error
	// Format returns the columnar format
	Format() Format
	// RowsWritten returns rows written so far
	RowsWritten() int64
}

// Reader provides columnar format reading capabilities
type Reader interface {
	// Next reads the next row, returning nil at EOF
	Next() (map[string]interface{}, error)
	// HasNext checks if more rows exist
	HasNext() bool
	// Close closes the reader
	Close() error
	// Format returns the columnar format
	Format() Format
	// Schema returns the resolved schema of the file
	Schema() (*schema.Schema, error)
}

// WriterConfig configures columnar writers
type WriterConfig struct {
	Format      Format
	Schema      *schema.Schema
	Compression string
	BatchSize   int
	PageSize    int
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:      Parquet,
		Compression: "snappy",
		BatchSize:   10000,
		PageSize:    8192,
	}
}

// ReaderConfig configures columnar readers
type ReaderConfig struct {
	Format    Format
	BatchSize int
}

// DefaultReaderConfig returns default reader configuration
func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		Format:    Parquet,
		BatchSize: 10000,
	}
}

// NewWriter creates a new columnar writer
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultWriterConfig().BatchSize
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultWriterConfig().PageSize
	}

	switch config.Format {
	case Parquet:
		return newParquetWriter(w, config)
	case Arrow:
		return newArrowWriter(w, config)
	default:
		return nil, fmt.Errorf("unsupported columnar format: %s", config.Format)
	}
}

// NewReader creates a new columnar reader
func NewReader(r io.Reader, config *ReaderConfig) (Reader, error) {
	if config == nil {
		config = DefaultReaderConfig()
	}

	switch config.Format {
	case Parquet:
		return newParquetReader(r, config)
	case Arrow:
		return newArrowReader(r, config)
	default:
		return nil, fmt.Errorf("unsupported columnar format: %s", config.Format)
	}
}

// FormatInfo provides information about columnar formats
type FormatInfo struct {
	Format           Format
	Name             string
	Description      string
	FileExtension    string
	SupportsCompress bool
}

// GetFormatInfo returns information about a columnar format
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case Parquet:
		return &FormatInfo{
			Format:           Parquet,
			Name:             "Apache Parquet",
			Description:      "Columnar storage format optimized for analytics",
			FileExtension:    ".parquet",
			SupportsCompress: true,
		}
	case Arrow:
		return &FormatInfo{
			Format:           Arrow,
			Name:             "Apache Arrow",
			Description:      "In-memory columnar format",
			FileExtension:    ".arrow",
			SupportsCompress: false,
		}
	default:
		return nil
	}
}
