package utils

import "github.com/vektah/gqlparser/v2/ast"

func IsAbstractType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

func IsCompositeType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Object, ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

// PossibleTypes returns the concrete object types def may resolve to.
// Abstract types expand to their implementations or members, any other type
// yields itself.
func PossibleTypes(schema *ast.Schema, def *ast.Definition) []*ast.Definition {
	if IsAbstractType(def) {
		possibleTypes := schema.GetPossibleTypes(def)
		result := make([]*ast.Definition, 0, len(possibleTypes))
		for _, possibleType := range possibleTypes {
			// gqlparser registers an interface as a possible type of the
			// interfaces it implements. those are never concrete.
			if possibleType.Kind != ast.Object {
				continue
			}
			result = append(result, possibleType)
		}
		return result
	}

	return []*ast.Definition{def}
}

func ContainsType(defs []*ast.Definition, elem *ast.Definition) bool {
	for _, def := range defs {
		if def == elem {
			return true
		}
	}

	return false
}

// ContainsAllTypes reports whether every type of subset is in defs.
func ContainsAllTypes(defs []*ast.Definition, subset []*ast.Definition) bool {
	for _, def := range subset {
		if !ContainsType(defs, def) {
			return false
		}
	}

	return true
}

// IntersectTypes returns the types of a that are also in b, in a's order.
func IntersectTypes(a, b []*ast.Definition) []*ast.Definition {
	result := make([]*ast.Definition, 0, len(a))
	for _, def := range a {
		if ContainsType(b, def) {
			result = append(result, def)
		}
	}

	return result
}

// HasIntersection reports whether a and b share at least one type.
func HasIntersection(a, b []*ast.Definition) bool {
	for _, def := range a {
		if ContainsType(b, def) {
			return true
		}
	}

	return false
}

func TypeNames(defs []*ast.Definition) []string {
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}

	return names
}
