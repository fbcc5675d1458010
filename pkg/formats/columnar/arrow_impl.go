// Package columnar provides the Arrow IPC implementation
package columnar

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nimbus/pkg/schema"
)

// arrowWriter implements Writer for the Arrow IPC file format
type arrowWriter struct {
	writer        io.Writer
	config        *WriterConfig
	arrowSchema   *arrow.Schema
	fileWriter    *ipc.FileWriter
	recordBuilder *array.RecordBuilder
	rowsWritten   int64
	currentBatch  int
	mu            sync.Mutex
	pool          memory.Allocator
}

func newArrowWriter(w io.Writer, config *WriterConfig) (*arrowWriter, error) {
	if config.Schema == nil {
		return nil, fmt.Errorf("schema is required for Arrow writer")
	}

	arrowSchema, err := schema.ToArrow(config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to convert schema: %w", err)
	}

	pool := memory.NewGoAllocator()

	aw := &arrowWriter{
		writer:      w,
		config:      config,
		arrowSchema: arrowSchema,
		pool:        pool,
	}

	aw.recordBuilder = array.NewRecordBuilder(pool, arrowSchema)

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(arrowSchema), ipc.WithAllocator(pool))
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow writer: %w", err)
	}
	aw.fileWriter = fw

	return aw, nil
}

func (aw *arrowWriter) WriteRow(row map[string]interface{}) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	for i, field := range aw.arrowSchema.Fields() {
		value := row[field.Name]
		if err := appendValue(aw.recordBuilder.Field(i), value); err != nil {
			return fmt.Errorf("failed to append value for field %s: %w", field.Name, err)
		}
	}

	aw.currentBatch++

	if aw.currentBatch >= aw.config.BatchSize {
		return aw.flushBatch()
	}

	return nil
}

func (aw *arrowWriter) WriteRows(rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := aw.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (aw *arrowWriter) Flush() error {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	return aw.flushBatch()
}

func (aw *arrowWriter) Close() error {
	if err := aw.Flush(); err != nil {
		return err
	}

	aw.mu.Lock()
	defer aw.mu.Unlock()

	if err := aw.fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Arrow writer: %w", err)
	}

	return nil
}

func (aw *arrowWriter) Format() Format {
	return Arrow
}

func (aw *arrowWriter) RowsWritten() int64 {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	return aw.rowsWritten
}

func (aw *arrowWriter) flushBatch() error {
	if aw.currentBatch == 0 {
		return nil
	}

	record := aw.recordBuilder.NewRecord()
	defer record.Release()

	if err := aw.fileWriter.Write(record); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}

	aw.rowsWritten += int64(aw.currentBatch)
	aw.currentBatch = 0

	return nil
}

// arrowReader implements Reader for the Arrow IPC file format
type arrowReader struct {
	config       *ReaderConfig
	fileReader   *ipc.FileReader
	currentBatch arrow.Record
	currentRow   int
	batchIndex   int
	schema       *schema.Schema
	mu           sync.Mutex
}

func newArrowReader(r io.Reader, config *ReaderConfig) (*arrowReader, error) {
	// Arrow IPC files need a seekable source; buffer the stream
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Arrow data: %w", err)
	}

	reader, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	return &arrowReader{
		config:     config,
		fileReader: reader,
		batchIndex: -1,
		schema:     schema.FromArrow("arrow_schema", reader.Schema()),
	}, nil
}

func (ar *arrowReader) Next() (map[string]interface{}, error) {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if ar.currentBatch == nil || ar.currentRow >= int(ar.currentBatch.NumRows()) {
		if err := ar.loadNextBatch(); err != nil {
			return nil, err
		}
		if ar.currentBatch == nil {
			return nil, nil // EOF
		}
	}

	row := ar.rowAt(ar.currentRow)
	ar.currentRow++

	return row, nil
}

func (ar *arrowReader) HasNext() bool {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if ar.currentBatch != nil && ar.currentRow < int(ar.currentBatch.NumRows()) {
		return true
	}

	if err := ar.loadNextBatch(); err != nil {
		return false
	}

	return ar.currentBatch != nil
}

func (ar *arrowReader) Close() error {
	if ar.currentBatch != nil {
		ar.currentBatch.Release()
		ar.currentBatch = nil
	}
	return ar.fileReader.Close()
}

func (ar *arrowReader) Format() Format {
	return Arrow
}

func (ar *arrowReader) Schema() (*schema.Schema, error) {
	return ar.schema, nil
}

func (ar *arrowReader) loadNextBatch() error {
	if ar.currentBatch != nil {
		ar.currentBatch.Release()
		ar.currentBatch = nil
	}

	ar.batchIndex++
	if ar.batchIndex >= ar.fileReader.NumRecords() {
		return nil // EOF
	}

	batch, err := ar.fileReader.Record(ar.batchIndex)
	if err != nil {
		return err
	}
	batch.Retain()
	ar.currentBatch = batch
	ar.currentRow = 0

	return nil
}

func (ar *arrowReader) rowAt(rowIdx int) map[string]interface{} {
	row := make(map[string]interface{}, int(ar.currentBatch.NumCols()))

	for i := 0; i < int(ar.currentBatch.NumCols()); i++ {
		col := ar.currentBatch.Column(i)
		field := ar.currentBatch.Schema().Field(i)
		row[field.Name] = columnValue(col, rowIdx)
	}

	return row
}
