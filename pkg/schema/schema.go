// Package schema resolves flattened type declarations into an ordered
// columnar schema with a closed set of concrete storage types.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ajitpratap0/nimbus/pkg/errors"
)

// FieldType represents the concrete storage type of a column
type FieldType string

const (
	// FieldTypeBool is a boolean column
	FieldTypeBool FieldType = "bool"
	// FieldTypeString is a UTF-8 string column
	FieldTypeString FieldType = "string"
	// FieldTypeInt is a 64-bit integer column
	FieldTypeInt FieldType = "int64"
	// FieldTypeFloat is a 64-bit float column
	FieldTypeFloat FieldType = "float64"
)

// nullToken marks nullability inside a declared type set
const nullToken = "NULL"

// fieldTypeByToken is the closed mapping from declared type tokens to
// storage types. Arrays are serialized to strings rather than decomposed,
// and untyped fields default to string.
var fieldTypeByToken = map[string]FieldType{
	"BOOLEAN": FieldTypeBool,
	"STRING":  FieldTypeString,
	"ARRAY":   FieldTypeString,
	"":        FieldTypeString,
	"INTEGER": FieldTypeInt,
	"NUMBER":  FieldTypeFloat,
}

// Column represents a resolved column in the output schema
type Column struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Nullable bool      `json:"nullable"`
}

// Schema is an ordered sequence of resolved columns
type Schema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column returns the column with the given name, if present
func (s *Schema) Column(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Names returns the column names in schema order
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// ResolveField resolves a raw declared type (absent, a single token, or a
// list of tokens, case-insensitive) into a concrete column. A "null" token
// sets the nullable flag and is removed before selection. When several
// concrete tokens remain the lexicographically first is taken, so the pick
// is stable across runs. A token outside the closed mapping is fatal.
func ResolveField(name string, declared interface{}) (Column, error) {
	tokens := normalizeTokens(declared)

	nullable := false
	if _, ok := tokens[nullToken]; ok {
		nullable = true
		delete(tokens, nullToken)
	}

	selected := ""
	if len(tokens) > 0 {
		remaining := make([]string, 0, len(tokens))
		for token := range tokens {
			remaining = append(remaining, token)
		}
		sort.Strings(remaining)
		selected = remaining[0]
	}

	fieldType, ok := fieldTypeByToken[selected]
	if !ok {
		return Column{}, errors.Newf(errors.ErrorTypeUnsupportedType,
			"data type %v for field %s is not supported", declared, name).
			WithDetail("field", name).
			WithDetail("declared_types", declared)
	}

	return Column{Name: name, Type: fieldType, Nullable: nullable}, nil
}

// Build resolves each field named in order against the flattened type mapping
// and assembles the final schema. Column order equals the input order exactly.
// A name absent from the mapping or an unresolvable type aborts the build; no
// partial schema is returned.
func Build(name string, types map[string]interface{}, order []string) (*Schema, error) {
	columns := make([]Column, 0, len(order))

	for _, fieldName := range order {
		declared, ok := types[fieldName]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound,
				"field %s is not present in the flattened schema", fieldName).
				WithDetail("field", fieldName)
		}

		column, err := ResolveField(fieldName, declared)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}

	return &Schema{Name: name, Columns: columns}, nil
}

// normalizeTokens upper-cases a raw declared type into a token set
func normalizeTokens(declared interface{}) map[string]struct{} {
	tokens := make(map[string]struct{})

	switch t := declared.(type) {
	case nil:
	case string:
		tokens[strings.ToUpper(t)] = struct{}{}
	case []string:
		for _, s := range t {
			tokens[strings.ToUpper(s)] = struct{}{}
		}
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				tokens[strings.ToUpper(s)] = struct{}{}
			} else {
				tokens[strings.ToUpper(fmt.Sprint(item))] = struct{}{}
			}
		}
	default:
		// Unknown declaration shape; surfaces as an unsupported type
		tokens[strings.ToUpper(fmt.Sprint(t))] = struct{}{}
	}

	return tokens
}
