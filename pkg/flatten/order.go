package flatten

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/nimbus/pkg/errors"
)

// schemaNode is an order-preserving view of one decoded schema object
type schemaNode struct {
	keys   []string
	values map[string]interface{}
}

// FieldOrder derives the first-seen order of flattened leaf fields from a raw
// schema document. Decoded Go maps do not preserve key order, so the order the
// schema author wrote is only recoverable from the document itself. The result
// is suitable as the column order passed to schema.Build.
func FieldOrder(raw []byte, sep string) ([]string, error) {
	if sep == "" {
		sep = DefaultSeparator
	}

	dec := gojson.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid schema document")
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrorTypeData, "schema document must be a JSON object")
	}

	root, err := parseOrderedObject(dec)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(root.keys))
	appendFieldOrder(&order, root, "", sep)
	return order, nil
}

// parseOrderedObject consumes tokens after an opening brace
func parseOrderedObject(dec *gojson.Decoder) (*schemaNode, error) {
	node := &schemaNode{values: make(map[string]interface{})}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid schema document")
		}
		if d, ok := tok.(gojson.Delim); ok && d == '}' {
			return node, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "schema document has a non-string key")
		}

		value, err := parseOrderedValue(dec)
		if err != nil {
			return nil, err
		}

		if _, seen := node.values[key]; !seen {
			node.keys = append(node.keys, key)
		}
		node.values[key] = value
	}
}

func parseOrderedValue(dec *gojson.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid schema document")
	}
	return parseValueToken(dec, tok)
}

func parseValueToken(dec *gojson.Decoder, tok gojson.Token) (interface{}, error) {
	if d, ok := tok.(gojson.Delim); ok {
		switch d {
		case '{':
			return parseOrderedObject(dec)
		case '[':
			return parseOrderedArray(dec)
		}
	}
	return tok, nil
}

func parseOrderedArray(dec *gojson.Decoder) ([]interface{}, error) {
	var items []interface{}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid schema document")
		}
		if d, ok := tok.(gojson.Delim); ok && d == ']' {
			return items, nil
		}

		value, err := parseValueToken(dec, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
}

// appendFieldOrder mirrors SchemaFlattener.Flatten over the ordered view
func appendFieldOrder(order *[]string, node *schemaNode, parentKey, sep string) {
	for _, key := range node.keys {
		newKey := key
		if parentKey != "" {
			newKey = parentKey + sep + key
		}

		decl, ok := node.values[key].(*schemaNode)
		if !ok {
			*order = append(*order, newKey)
			continue
		}

		if hasObjectType(decl.values["type"]) {
			if props, ok := decl.values["properties"].(*schemaNode); ok {
				appendFieldOrder(order, props, newKey, sep)
			}
			continue
		}

		*order = append(*order, newKey)
	}
}
