package graphql

import "github.com/vektah/gqlparser/v2/ast"

const (
	SkipDirectiveName       = "skip"
	IncludeDirectiveName    = "include"
	DeprecatedDirectiveName = "deprecated"
)

const DefaultDeprecationReason = "No longer supported"

// Deprecation reads @deprecated from a field definition's directives.
func Deprecation(directives ast.DirectiveList) (bool, string) {
	directive := directives.ForName(DeprecatedDirectiveName)
	if directive == nil {
		return false, ""
	}

	reason := directive.Arguments.ForName("reason")
	if reason == nil || reason.Value == nil || reason.Value.Kind == ast.NullValue {
		return true, DefaultDeprecationReason
	}

	return true, reason.Value.Raw
}

// IsConditionalDirective reports whether directive is @skip or @include.
func IsConditionalDirective(directive *ast.Directive) bool {
	switch directive.Name {
	case SkipDirectiveName, IncludeDirectiveName:
		return true
	default:
		return false
	}
}
