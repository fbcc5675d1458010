// Package nimbus converts semi-structured, arbitrarily nested JSON records
// and their nested schema declarations into a flat, columnar representation.
//
// Two symmetric transformations share one naming convention: the record
// flattener turns a nested record into a flat row keyed by path segments
// joined with a separator (default "__"), and the schema flattener turns a
// nested schema document into a flat mapping from column name to declared
// type. The schema package then resolves each declared type to one of four
// concrete storage types (bool, string, int64, float64) with a nullable
// flag, and assembles the final column list in an externally supplied order.
//
// # Quick Start
//
//	import (
//	    "github.com/ajitpratap0/nimbus/pkg/flatten"
//	    "github.com/ajitpratap0/nimbus/pkg/schema"
//	)
//
//	flattener := flatten.NewSchemaFlattener(logger)
//	types := flattener.Flatten(schemaDoc, flatten.DefaultSeparator)
//	order, _ := flatten.FieldOrder(rawSchema, flatten.DefaultSeparator)
//	s, err := schema.Build("events", types, order)
//
//	row := flatten.Flatten(record, flatten.DefaultSeparator)
//
// The formats/columnar package writes flat rows against a resolved schema as
// Apache Parquet or Arrow IPC files, and cmd/nimbus wraps the whole flow in
// a CLI for line-delimited JSON input.
//
// # Key Packages
//
//	pkg/flatten          - Record and schema flattening
//	pkg/schema           - Type resolution and columnar schema assembly
//	pkg/formats/columnar - Parquet and Arrow IPC writers/readers
//	pkg/config           - Conversion run configuration
//	pkg/errors           - Structured error handling
//	pkg/logger           - Structured logging
package nimbus
