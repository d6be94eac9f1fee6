package graphql

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// for formatter
var blankBuiltInPos = &ast.Position{
	Src: &ast.Source{
		BuiltIn: true,
	},
}

var SchemaMetaFieldDef = &ast.FieldDefinition{
	Name:        "__schema",
	Description: "Access the current type schema of this server.",
	Type:        ast.NonNullNamedType("__Schema", nil),
	Position:    blankBuiltInPos,
}

var TypeMetaFieldDef = &ast.FieldDefinition{
	Name:        "__type",
	Description: "Request the type information of a single type.",
	Type:        ast.NamedType("__Type", nil),
	Arguments: []*ast.ArgumentDefinition{
		{
			Name:     "name",
			Type:     ast.NonNullNamedType("String", nil),
			Position: blankBuiltInPos,
		},
	},
	Position: blankBuiltInPos,
}

var TypeNameMetaFieldDef = &ast.FieldDefinition{
	Name:     "__typename",
	Type:     ast.NonNullNamedType("String", nil),
	Position: blankBuiltInPos,
}

const metaFieldPrefix = "__"

func IsMetaFieldName(name string) bool {
	return strings.HasPrefix(name, metaFieldPrefix)
}

// FieldDef looks up the definition selected by fieldName on parentType.
// Meta fields are resolved here because the schema doesn't always list them.
func FieldDef(schema *ast.Schema, parentType *ast.Definition, fieldName string) *ast.FieldDefinition {
	if fieldName == TypeNameMetaFieldDef.Name {
		switch parentType.Kind {
		case ast.Object, ast.Interface, ast.Union:
			return TypeNameMetaFieldDef
		}
		return nil
	}

	if fieldDef := parentType.Fields.ForName(fieldName); fieldDef != nil {
		return fieldDef
	}

	if schema.Query != nil && parentType == schema.Query {
		switch fieldName {
		case SchemaMetaFieldDef.Name:
			return SchemaMetaFieldDef
		case TypeMetaFieldDef.Name:
			return TypeMetaFieldDef
		}
	}

	return nil
}
