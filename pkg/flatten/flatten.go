// Package flatten converts nested records and nested schema declarations into
// flat, separator-joined mappings suitable for columnar output.
package flatten

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultSeparator joins path segments in flattened keys.
// Record and schema flattening must use the same separator for column
// names to align between the two.
const DefaultSeparator = "__"

// Flatten flattens a nested record into a single-level mapping keyed by the
// path segments joined with sep. List values are stored as their default
// string rendering; every other scalar is stored unchanged. A nil record
// yields an empty mapping.
//
// Example:
//
//	Flatten(map[string]interface{}{
//	    "a": map[string]interface{}{"b": 2},
//	}, "__")
//
// returns {"a__b": 2}.
func Flatten(record map[string]interface{}, sep string) map[string]interface{} {
	if sep == "" {
		sep = DefaultSeparator
	}

	flat := make(map[string]interface{}, len(record))
	flattenInto(flat, record, "", sep)
	return flat
}

func flattenInto(flat map[string]interface{}, record map[string]interface{}, parentKey, sep string) {
	for key, value := range record {
		newKey := key
		if parentKey != "" {
			newKey = parentKey + sep + key
		}

		switch v := value.(type) {
		case map[string]interface{}:
			flattenInto(flat, v, newKey, sep)
		case []interface{}:
			// Lists are opaque to the columnar schema; store the rendering
			flat[newKey] = fmt.Sprintf("%v", v)
		case []string:
			flat[newKey] = fmt.Sprintf("%v", v)
		default:
			flat[newKey] = value
		}
	}
}

// SchemaFlattener flattens nested schema declarations. The logger reports
// fields declared without a type; pass nil to silence them.
type SchemaFlattener struct {
	logger *zap.Logger
}

// NewSchemaFlattener creates a schema flattener with the given logger
func NewSchemaFlattener(logger *zap.Logger) *SchemaFlattener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaFlattener{logger: logger}
}

// Flatten flattens a nested schema node into a mapping from flattened key to
// the raw declared type (nil, a single token, or a list of tokens). A node
// whose type includes "object" contributes no key of its own; its properties
// are flattened in its place. A declaration without a "type" key is reported
// at warning level and recorded as untyped.
func (f *SchemaFlattener) Flatten(schema map[string]interface{}, sep string) map[string]interface{} {
	if sep == "" {
		sep = DefaultSeparator
	}

	flat := make(map[string]interface{}, len(schema))
	f.flattenInto(flat, schema, "", sep)
	return flat
}

func (f *SchemaFlattener) flattenInto(flat map[string]interface{}, schema map[string]interface{}, parentKey, sep string) {
	for key, value := range schema {
		newKey := key
		if parentKey != "" {
			newKey = parentKey + sep + key
		}

		decl, ok := value.(map[string]interface{})
		if !ok {
			// Not declaration-shaped; treat as an untyped leaf
			f.logger.Warn("schema field with limited support",
				zap.String("field", key),
				zap.Any("declaration", value))
			flat[newKey] = nil
			continue
		}

		declType, hasType := decl["type"]
		if !hasType {
			f.logger.Warn("schema field with limited support",
				zap.String("field", key),
				zap.Any("declaration", decl))
		}

		if hasObjectType(declType) {
			props, _ := decl["properties"].(map[string]interface{})
			f.flattenInto(flat, props, newKey, sep)
			continue
		}

		flat[newKey] = declType
	}
}

// hasObjectType reports whether a raw type declaration includes "object"
func hasObjectType(declType interface{}) bool {
	switch t := declType.(type) {
	case string:
		return strings.EqualFold(t, "object")
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, "object") {
				return true
			}
		}
	case []string:
		for _, s := range t {
			if strings.EqualFold(s, "object") {
				return true
			}
		}
	}
	return false
}
