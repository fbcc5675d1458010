// Package convert wires schema flattening, type resolution and columnar
// output into one conversion run.
package convert

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nimbus/pkg/config"
	"github.com/ajitpratap0/nimbus/pkg/errors"
	"github.com/ajitpratap0/nimbus/pkg/flatten"
	"github.com/ajitpratap0/nimbus/pkg/formats/columnar"
	jsonpkg "github.com/ajitpratap0/nimbus/pkg/json"
	"github.com/ajitpratap0/nimbus/pkg/schema"
)

// Result summarizes a completed conversion run
type Result struct {
	Rows    int64
	Columns int
	Schema  *schema.Schema
}

// Converter runs one nested-JSON to columnar conversion
type Converter struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a converter for the given configuration
func New(cfg *config.Config, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{cfg: cfg, logger: logger}
}

// Run reads the schema document and the line-delimited records, flattens
// both, and writes the columnar output file. A schema that cannot be fully
// resolved aborts the run before any record is read.
func (c *Converter) Run(ctx context.Context) (*Result, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	columnarSchema, err := c.buildSchema()
	if err != nil {
		return nil, err
	}

	c.logger.Info("resolved columnar schema",
		zap.String("name", columnarSchema.Name),
		zap.Int("columns", len(columnarSchema.Columns)))

	input, err := c.openInput()
	if err != nil {
		return nil, err
	}
	defer input.Close()

	output, err := os.Create(c.cfg.Output)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file")
	}
	defer output.Close()

	writer, err := columnar.NewWriter(output, &columnar.WriterConfig{
		Format:      columnar.Format(c.cfg.Format),
		Schema:      columnarSchema,
		Compression: c.cfg.Compression,
		BatchSize:   c.cfg.BatchSize,
		PageSize:    8192,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create columnar writer")
	}

	rows, err := c.writeRecords(ctx, input, writer)
	if err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to finalize output")
	}

	return &Result{
		Rows:    rows,
		Columns: len(columnarSchema.Columns),
		Schema:  columnarSchema,
	}, nil
}

// buildSchema flattens the schema document and resolves it in the
// first-seen field order of the document
func (c *Converter) buildSchema() (*schema.Schema, error) {
	raw, err := os.ReadFile(c.cfg.SchemaPath) //nolint:gosec // G304: path from validated config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read schema document")
	}

	var doc map[string]interface{}
	if err := jsonpkg.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse schema document")
	}

	flattener := flatten.NewSchemaFlattener(c.logger)
	types := flattener.Flatten(doc, c.cfg.Separator)

	order, err := flatten.FieldOrder(raw, c.cfg.Separator)
	if err != nil {
		return nil, err
	}

	return schema.Build(c.cfg.Name, types, order)
}

func (c *Converter) openInput() (io.ReadCloser, error) {
	if c.cfg.Input == "" || c.cfg.Input == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(c.cfg.Input) //nolint:gosec // G304: path from validated config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input")
	}
	return f, nil
}

// writeRecords streams line-delimited records through the record flattener
// into the columnar writer
func (c *Converter) writeRecords(ctx context.Context, input io.Reader, writer columnar.Writer) (int64, error) {
	dec := jsonpkg.NewDecoder(input)
	dec.UseNumber()

	var rows int64
	for {
		if err := ctx.Err(); err != nil {
			return rows, errors.Wrap(err, errors.ErrorTypeInternal, "conversion canceled")
		}

		var record map[string]interface{}
		if err := dec.Decode(&record); err != nil {
			if err == io.EOF {
				break
			}
			return rows, errors.Wrap(err, errors.ErrorTypeData, "failed to parse record").
				WithDetail("row", rows)
		}

		row := flatten.Flatten(record, c.cfg.Separator)
		if err := writer.WriteRow(row); err != nil {
			return rows, errors.Wrap(err, errors.ErrorTypeData, "failed to write row").
				WithDetail("row", rows)
		}
		rows++
	}

	return rows, nil
}
