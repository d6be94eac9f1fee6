package graphql

import "github.com/vektah/gqlparser/v2/ast"

var SpecifiedScalarTypeNames = []string{
	"String",
	"Int",
	"Float",
	"Boolean",
	"ID",
}

// IsSpecifiedScalarType reports whether def is one of the scalars every schema
// gets for free. custom scalars need a mapping in generated code, these don't.
func IsSpecifiedScalarType(def *ast.Definition) bool {
	if def.Kind != ast.Scalar {
		return false
	}
	for _, name := range SpecifiedScalarTypeNames {
		if def.Name == name {
			return true
		}
	}
	return false
}
