package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrow(t *testing.T) {
	s := &Schema{
		Name: "events",
		Columns: []Column{
			{Name: "id", Type: FieldTypeInt, Nullable: true},
			{Name: "name", Type: FieldTypeString, Nullable: false},
			{Name: "score", Type: FieldTypeFloat, Nullable: true},
			{Name: "ok", Type: FieldTypeBool, Nullable: false},
		},
	}

	arrowSchema, err := ToArrow(s)
	require.NoError(t, err)
	require.Equal(t, 4, arrowSchema.NumFields())

	assert.Equal(t, arrow.PrimitiveTypes.Int64, arrowSchema.Field(0).Type)
	assert.True(t, arrowSchema.Field(0).Nullable)
	assert.Equal(t, arrow.BinaryTypes.String, arrowSchema.Field(1).Type)
	assert.False(t, arrowSchema.Field(1).Nullable)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, arrowSchema.Field(2).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, arrowSchema.Field(3).Type)
}

func TestToArrowUnknownType(t *testing.T) {
	s := &Schema{Columns: []Column{{Name: "x", Type: FieldType("decimal")}}}

	_, err := ToArrow(s)
	require.Error(t, err)
}

func TestArrowRoundTrip(t *testing.T) {
	s := &Schema{
		Name: "t",
		Columns: []Column{
			{Name: "id", Type: FieldTypeInt, Nullable: true},
			{Name: "name", Type: FieldTypeString, Nullable: true},
		},
	}

	arrowSchema, err := ToArrow(s)
	require.NoError(t, err)

	back := FromArrow("t", arrowSchema)
	assert.Equal(t, s, back)
}
