package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFlattenNested(t *testing.T) {
	record := map[string]interface{}{
		"key_1": 1,
		"key_2": map[string]interface{}{
			"key_3": 2,
			"key_4": map[string]interface{}{
				"key_5": 3,
				"key_6": []interface{}{"10", "11"},
			},
		},
	}

	flat := Flatten(record, DefaultSeparator)

	assert.Equal(t, map[string]interface{}{
		"key_1":               1,
		"key_2__key_3":        2,
		"key_2__key_4__key_5": 3,
		"key_2__key_4__key_6": "[10 11]",
	}, flat)
}

func TestFlattenFlatRecordIsNoOp(t *testing.T) {
	record := map[string]interface{}{
		"id":   int64(5),
		"name": "alpha",
		"ok":   true,
	}

	flat := Flatten(record, DefaultSeparator)

	assert.Equal(t, record, flat)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, Flatten(nil, DefaultSeparator))
	assert.Empty(t, Flatten(map[string]interface{}{}, DefaultSeparator))
}

func TestFlattenCustomSeparator(t *testing.T) {
	record := map[string]interface{}{
		"a": map[string]interface{}{"b": 1},
	}

	flat := Flatten(record, ".")

	assert.Equal(t, map[string]interface{}{"a.b": 1}, flat)
}

func TestFlattenEmptySeparatorUsesDefault(t *testing.T) {
	record := map[string]interface{}{
		"a": map[string]interface{}{"b": 1},
	}

	flat := Flatten(record, "")

	assert.Equal(t, map[string]interface{}{"a__b": 1}, flat)
}

func TestFlattenNilValuesKept(t *testing.T) {
	record := map[string]interface{}{
		"a": nil,
	}

	flat := Flatten(record, DefaultSeparator)

	require.Contains(t, flat, "a")
	assert.Nil(t, flat["a"])
}

func TestSchemaFlattenNested(t *testing.T) {
	schemaDoc := map[string]interface{}{
		"key_1": map[string]interface{}{"type": []interface{}{"null", "integer"}},
		"key_2": map[string]interface{}{
			"type": []interface{}{"null", "object"},
			"properties": map[string]interface{}{
				"key_3": map[string]interface{}{"type": []interface{}{"null", "string"}},
				"key_4": map[string]interface{}{
					"type": []interface{}{"null", "object"},
					"properties": map[string]interface{}{
						"key_5": map[string]interface{}{"type": []interface{}{"null", "integer"}},
						"key_6": map[string]interface{}{
							"type": []interface{}{"null", "array"},
							"items": map[string]interface{}{
								"type": []interface{}{"null", "object"},
								"properties": map[string]interface{}{
									"key_7": map[string]interface{}{"type": []interface{}{"null", "number"}},
								},
							},
						},
					},
				},
			},
		},
	}

	flat := NewSchemaFlattener(nil).Flatten(schemaDoc, DefaultSeparator)

	assert.Equal(t, map[string]interface{}{
		"key_1":               []interface{}{"null", "integer"},
		"key_2__key_3":        []interface{}{"null", "string"},
		"key_2__key_4__key_5": []interface{}{"null", "integer"},
		"key_2__key_4__key_6": []interface{}{"null", "array"},
	}, flat)
}

func TestSchemaFlattenObjectContributesNoColumn(t *testing.T) {
	schemaDoc := map[string]interface{}{
		"meta": map[string]interface{}{
			"type": []interface{}{"null", "object"},
			"properties": map[string]interface{}{
				"k": map[string]interface{}{"type": "string"},
			},
		},
	}

	flat := NewSchemaFlattener(nil).Flatten(schemaDoc, DefaultSeparator)

	assert.NotContains(t, flat, "meta")
	assert.Contains(t, flat, "meta__k")
}

func TestSchemaFlattenMissingTypeWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	flattener := NewSchemaFlattener(zap.New(core))

	schemaDoc := map[string]interface{}{
		"mystery": map[string]interface{}{"description": "no type here"},
	}

	flat := flattener.Flatten(schemaDoc, DefaultSeparator)

	require.Contains(t, flat, "mystery")
	assert.Nil(t, flat["mystery"])

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "mystery", fields["field"])
}

func TestSchemaFlattenObjectWithoutProperties(t *testing.T) {
	schemaDoc := map[string]interface{}{
		"bare": map[string]interface{}{"type": "object"},
	}

	flat := NewSchemaFlattener(nil).Flatten(schemaDoc, DefaultSeparator)

	assert.Empty(t, flat)
}

func TestSchemaFlattenSingleTokenType(t *testing.T) {
	schemaDoc := map[string]interface{}{
		"name": map[string]interface{}{"type": "string"},
	}

	flat := NewSchemaFlattener(nil).Flatten(schemaDoc, DefaultSeparator)

	assert.Equal(t, map[string]interface{}{"name": "string"}, flat)
}

func TestHasObjectTypeCaseInsensitive(t *testing.T) {
	assert.True(t, hasObjectType("OBJECT"))
	assert.True(t, hasObjectType([]interface{}{"null", "Object"}))
	assert.False(t, hasObjectType([]interface{}{"null", "string"}))
	assert.False(t, hasObjectType(nil))
}
