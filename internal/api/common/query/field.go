package query

import (
	commonerrors "measurement-api-server/internal/api/common/errors"
)

// Field is the closed set of queryable measurement attributes.
type Field string

const (
	Field1 Field = "field1"
	Field2 Field = "field2"
	Field3 Field = "field3"
)

func ParseField(value string) (Field, error) {
	switch Field(value) {
	case Field1, Field2, Field3:
		return Field(value), nil
	}
	return "", commonerrors.ValidationErr("Invalid or missing field name (field1, field2, field3)")
}

func (f Field) String() string {
	return string(f)
}

// Column returns the database column backing the field. The switch is
// exhaustive over the enum; reaching the panic means a new Field constant
// was added without a column mapping.
func (f Field) Column() string {
	switch f {
	case Field1:
		return "field1"
	case Field2:
		return "field2"
	case Field3:
		return "field3"
	}
	panic("unknown field: " + string(f))
}
