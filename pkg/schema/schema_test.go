package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nimbus/pkg/errors"
)

func TestResolveFieldNullableInteger(t *testing.T) {
	col, err := ResolveField("x", []interface{}{"null", "integer"})
	require.NoError(t, err)

	assert.Equal(t, Column{Name: "x", Type: FieldTypeInt, Nullable: true}, col)
}

func TestResolveFieldSingleToken(t *testing.T) {
	col, err := ResolveField("x", "string")
	require.NoError(t, err)

	assert.Equal(t, Column{Name: "x", Type: FieldTypeString, Nullable: false}, col)
}

func TestResolveFieldEmptyDefaultsToString(t *testing.T) {
	col, err := ResolveField("x", []interface{}{})
	require.NoError(t, err)
	assert.Equal(t, Column{Name: "x", Type: FieldTypeString, Nullable: false}, col)

	col, err = ResolveField("x", nil)
	require.NoError(t, err)
	assert.Equal(t, Column{Name: "x", Type: FieldTypeString, Nullable: false}, col)
}

func TestResolveFieldNullableArrayIsString(t *testing.T) {
	col, err := ResolveField("x", []interface{}{"null", "array"})
	require.NoError(t, err)

	assert.Equal(t, Column{Name: "x", Type: FieldTypeString, Nullable: true}, col)
}

func TestResolveFieldCaseInsensitive(t *testing.T) {
	col, err := ResolveField("x", []interface{}{"NULL", "Integer"})
	require.NoError(t, err)

	assert.Equal(t, Column{Name: "x", Type: FieldTypeInt, Nullable: true}, col)
}

func TestResolveFieldAllTokens(t *testing.T) {
	cases := map[string]FieldType{
		"boolean": FieldTypeBool,
		"string":  FieldTypeString,
		"array":   FieldTypeString,
		"integer": FieldTypeInt,
		"number":  FieldTypeFloat,
	}

	for token, want := range cases {
		col, err := ResolveField("x", token)
		require.NoError(t, err, "token %s", token)
		assert.Equal(t, want, col.Type, "token %s", token)
	}
}

func TestResolveFieldUnsupportedType(t *testing.T) {
	declared := []interface{}{"timestamp"}
	_, err := ResolveField("x", declared)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedType))

	var structured *errors.Error
	require.True(t, errors.As(err, &structured))

	field, ok := structured.Detail("field")
	require.True(t, ok)
	assert.Equal(t, "x", field)

	types, ok := structured.Detail("declared_types")
	require.True(t, ok)
	assert.Equal(t, declared, types)
}

func TestResolveFieldMultipleTokensDeterministic(t *testing.T) {
	// Lexicographically first concrete token wins; stable across runs
	first, err := ResolveField("x", []interface{}{"integer", "boolean"})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		col, err := ResolveField("x", []interface{}{"boolean", "integer"})
		require.NoError(t, err)
		assert.Equal(t, first, col)
	}
	assert.Equal(t, FieldTypeBool, first.Type)
}

func TestBuildOrdered(t *testing.T) {
	types := map[string]interface{}{
		"id":      []interface{}{"null", "integer"},
		"meta__k": []interface{}{"null", "string"},
	}

	s, err := Build("events", types, []string{"id", "meta__k"})
	require.NoError(t, err)

	assert.Equal(t, "events", s.Name)
	assert.Equal(t, []Column{
		{Name: "id", Type: FieldTypeInt, Nullable: true},
		{Name: "meta__k", Type: FieldTypeString, Nullable: true},
	}, s.Columns)
}

func TestBuildOrderDrivesColumnOrder(t *testing.T) {
	types := map[string]interface{}{
		"a": "string",
		"b": "integer",
		"c": "number",
	}

	s, err := Build("t", types, []string{"c", "a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, s.Names())
}

func TestBuildSubsetOfMapping(t *testing.T) {
	types := map[string]interface{}{
		"keep": "string",
		"skip": "integer",
	}

	s, err := Build("t", types, []string{"keep"})
	require.NoError(t, err)

	assert.Equal(t, []string{"keep"}, s.Names())
}

func TestBuildMissingFieldFatal(t *testing.T) {
	s, err := Build("t", map[string]interface{}{"a": "string"}, []string{"a", "ghost"})
	require.Error(t, err)
	assert.Nil(t, s, "no partial schema on failure")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	var structured *errors.Error
	require.True(t, errors.As(err, &structured))
	field, ok := structured.Detail("field")
	require.True(t, ok)
	assert.Equal(t, "ghost", field)
}

func TestBuildUnsupportedTypeFatal(t *testing.T) {
	types := map[string]interface{}{
		"a": "string",
		"b": []interface{}{"timestamp"},
	}

	s, err := Build("t", types, []string{"a", "b"})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedType))
}

func TestBuildUntypedFieldDefaultsToString(t *testing.T) {
	types := map[string]interface{}{"mystery": nil}

	s, err := Build("t", types, []string{"mystery"})
	require.NoError(t, err)

	assert.Equal(t, []Column{{Name: "mystery", Type: FieldTypeString, Nullable: false}}, s.Columns)
}

func TestSchemaColumnLookup(t *testing.T) {
	s := &Schema{Columns: []Column{{Name: "a", Type: FieldTypeString}}}

	col, ok := s.Column("a")
	assert.True(t, ok)
	assert.Equal(t, FieldTypeString, col.Type)

	_, ok = s.Column("missing")
	assert.False(t, ok)
}
