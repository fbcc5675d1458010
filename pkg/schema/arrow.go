package schema

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/nimbus/pkg/errors"
)

// ToArrow converts a resolved schema to an Arrow schema
func ToArrow(s *Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(s.Columns))

	for _, column := range s.Columns {
		arrowType, err := toArrowType(column.Type)
		if err != nil {
			return nil, err
		}

		fields = append(fields, arrow.Field{
			Name:     column.Name,
			Type:     arrowType,
			Nullable: column.Nullable,
		})
	}

	return arrow.NewSchema(fields, nil), nil
}

func toArrowType(fieldType FieldType) (arrow.DataType, error) {
	switch fieldType {
	case FieldTypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case FieldTypeString:
		return arrow.BinaryTypes.String, nil
	case FieldTypeInt:
		return arrow.PrimitiveTypes.Int64, nil
	case FieldTypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeUnsupportedType,
			"no Arrow mapping for field type %s", fieldType).
			WithDetail("field_type", fieldType)
	}
}

// FromArrow converts an Arrow schema back to a resolved schema. Types
// outside the closed storage set map to string.
func FromArrow(name string, arrowSchema *arrow.Schema) *Schema {
	columns := make([]Column, 0, arrowSchema.NumFields())

	for i := 0; i < arrowSchema.NumFields(); i++ {
		field := arrowSchema.Field(i)
		columns = append(columns, Column{
			Name:     field.Name,
			Type:     fromArrowType(field.Type),
			Nullable: field.Nullable,
		})
	}

	return &Schema{Name: name, Columns: columns}
}

func fromArrowType(arrowType arrow.DataType) FieldType {
	switch arrowType.ID() {
	case arrow.BOOL:
		return FieldTypeBool
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return FieldTypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return FieldTypeFloat
	default:
		return FieldTypeString
	}
}
