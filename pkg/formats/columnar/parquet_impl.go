// Package columnar provides the Parquet implementation
package columnar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/nimbus/pkg/schema"
)

// parquetWriter implements Writer for Parquet format
type parquetWriter struct {
	writer        io.Writer
	config        *WriterConfig
	arrowSchema   *arrow.Schema
	fileWriter    *pqarrow.FileWriter
	recordBuilder *array.RecordBuilder
	rowsWritten   int64
	currentBatch  int
	mu            sync.Mutex
}

func newParquetWriter(w io.Writer, config *WriterConfig) (*parquetWriter, error) {
	if config.Schema == nil {
		return nil, fmt.Errorf("schema is required for Parquet writer")
	}

	arrowSchema, err := schema.ToArrow(config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to convert schema: %w", err)
	}

	pw := &parquetWriter{
		writer:      w,
		config:      config,
		arrowSchema: arrowSchema,
	}

	pool := memory.NewGoAllocator()
	pw.recordBuilder = array.NewRecordBuilder(pool, arrowSchema)

	props := parquet.NewWriterProperties(
		parquet.WithCompression(parquetCompression(config.Compression)),
		parquet.WithDataPageSize(int64(config.PageSize)),
	)

	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(pool),
	)

	fw, err := pqarrow.NewFileWriter(arrowSchema, w, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}
	pw.fileWriter = fw

	return pw, nil
}

func (pw *parquetWriter) WriteRow(row map[string]interface{}) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	for i, field := range pw.arrowSchema.Fields() {
		value := row[field.Name]
		if err := appendValue(pw.recordBuilder.Field(i), value); err != nil {
			return fmt.Errorf("failed to append value for field %s: %w", field.Name, err)
		}
	}

	pw.currentBatch++

	if pw.currentBatch >= pw.config.BatchSize {
		return pw.flushBatch()
	}

	return nil
}

func (pw *parquetWriter) WriteRows(rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := pw.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (pw *parquetWriter) Flush() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.flushBatch()
}

func (pw *parquetWriter) Close() error {
	if err := pw.Flush(); err != nil {
		return err
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	if err := pw.fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}

	return nil
}

func (pw *parquetWriter) Format() Format {
	return Parquet
}

func (pw *parquetWriter) RowsWritten() int64 {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.rowsWritten
}

func (pw *parquetWriter) flushBatch() error {
	if pw.currentBatch == 0 {
		return nil
	}

	record := pw.recordBuilder.NewRecord()
	defer record.Release()

	if err := pw.fileWriter.WriteBuffered(record); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}

	pw.rowsWritten += int64(pw.currentBatch)
	pw.currentBatch = 0

	return nil
}

// parquetReader implements Reader for Parquet format
type parquetReader struct {
	config       *ReaderConfig
	fileReader   *file.Reader
	recordReader pqarrow.RecordReader
	currentBatch arrow.Record
	currentRow   int
	schema       *schema.Schema
	mu           sync.Mutex
}

func newParquetReader(r io.Reader, config *ReaderConfig) (*parquetReader, error) {
	// Parquet needs a seekable source; buffer the stream
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Parquet data: %w", err)
	}

	fr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet reader: %w", err)
	}

	pool := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	rr, err := arrowReader.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}

	arrowSchema, err := arrowReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to get Arrow schema: %w", err)
	}

	return &parquetReader{
		config:       config,
		fileReader:   fr,
		recordReader: rr,
		schema:       schema.FromArrow("parquet_schema", arrowSchema),
	}, nil
}

func (pr *parquetReader) Next() (map[string]interface{}, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.currentBatch == nil || pr.currentRow >= int(pr.currentBatch.NumRows()) {
		if err := pr.loadNextBatch(); err != nil {
			return nil, err
		}
		if pr.currentBatch == nil {
			return nil, nil // EOF
		}
	}

	row := pr.rowAt(pr.currentRow)
	pr.currentRow++

	return row, nil
}

func (pr *parquetReader) HasNext() bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.currentBatch != nil && pr.currentRow < int(pr.currentBatch.NumRows()) {
		return true
	}

	if err := pr.loadNextBatch(); err != nil {
		return false
	}

	return pr.currentBatch != nil
}

func (pr *parquetReader) Close() error {
	if pr.currentBatch != nil {
		pr.currentBatch.Release()
		pr.currentBatch = nil
	}
	pr.recordReader.Release()
	return pr.fileReader.Close()
}

func (pr *parquetReader) Format() Format {
	return Parquet
}

func (pr *parquetReader) Schema() (*schema.Schema, error) {
	return pr.schema, nil
}

func (pr *parquetReader) loadNextBatch() error {
	if pr.currentBatch != nil {
		pr.currentBatch.Release()
		pr.currentBatch = nil
	}

	if pr.recordReader.Next() {
		pr.currentBatch = pr.recordReader.Record()
		pr.currentBatch.Retain()
		pr.currentRow = 0
	}

	return nil
}

func (pr *parquetReader) rowAt(rowIdx int) map[string]interface{} {
	row := make(map[string]interface{}, int(pr.currentBatch.NumCols()))

	for i := 0; i < int(pr.currentBatch.NumCols()); i++ {
		col := pr.currentBatch.Column(i)
		field := pr.currentBatch.Schema().Field(i)
		row[field.Name] = columnValue(col, rowIdx)
	}

	return row
}

// parquetCompression maps a codec name to a Parquet compression codec
func parquetCompression(compression string) compress.Compression {
	switch compression {
	case "zstd":
		return compress.Codecs.Zstd
	case "gzip":
		return compress.Codecs.Gzip
	case "lz4":
		return compress.Codecs.Lz4Raw
	case "brotli":
		return compress.Codecs.Brotli
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}
