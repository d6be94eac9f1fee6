package normalize

import (
	"context"
	"fmt"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/compiler"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/internal/testutils"
	"github.com/vvakame/gqlir/ir"
)

var _ FragmentResolver = (*compiler.Context)(nil)

var testSchemaSource = heredoc.Doc(`
	type Query {
		node: Node
		animal: Animal
		animals: [Animal!]!
		dog: Dog
	}

	interface Node {
		id: ID!
	}

	interface Animal {
		"The animal's name"
		name: String
	}

	type Dog implements Node & Animal {
		id: ID!
		"The dog's name"
		name: String
		barks: Boolean
	}

	type Cat implements Node & Animal {
		id: ID!
		name: String
		purrs: Boolean
	}

	type Bird implements Animal {
		name: String
		wingspan: Float
	}
`)

func compileDocument(t *testing.T, source string) *compiler.Context {
	t.Helper()

	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	schema := testutils.LoadSchema(t, "schema.graphqls", testSchemaSource)
	doc := testutils.LoadQuery(t, schema, "query.graphql", source)

	cctx, err := compiler.CompileToIR(ctx, schema, doc)
	require.NoError(t, err)

	return cctx
}

// fieldSelectionSet returns the selection set of the root field named fieldName.
func fieldSelectionSet(t *testing.T, operation *ir.Operation, fieldName string) *ir.SelectionSet {
	t.Helper()

	for _, selection := range operation.SelectionSet.Selections {
		field, ok := selection.(*ir.Field)
		if ok && field.ResponseKey == fieldName {
			require.NotNil(t, field.SelectionSet)
			return field.SelectionSet
		}
	}

	require.FailNow(t, "field not found", fieldName)
	return nil
}

// describe renders selections one per entry, compact enough for assertions.
func describe(selections []ir.Selection) []string {
	result := make([]string, 0, len(selections))
	for _, selection := range selections {
		switch selection := selection.(type) {
		case *ir.Field:
			result = append(result, selection.ResponseKey)
		case *ir.TypeCondition:
			result = append(result, fmt.Sprintf("... on %s %v", selection.Type.Name, describe(selection.SelectionSet.Selections)))
		case *ir.BooleanCondition:
			directive := "include"
			if selection.Inverted {
				directive = "skip"
			}
			result = append(result, fmt.Sprintf("@%s($%s) %v", directive, selection.VariableName, describe(selection.SelectionSet.Selections)))
		case *ir.FragmentSpread:
			result = append(result, "..."+selection.FragmentName)
		}
	}
	return result
}

func typeNames(defs []*ast.Definition) []string {
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return names
}

type fragmentMap map[string]*ir.Fragment

func (m fragmentMap) FragmentNamed(fragmentName string) (*ir.Fragment, error) {
	fragment, ok := m[fragmentName]
	if !ok {
		return nil, fmt.Errorf("cannot find fragment %q: %w", fragmentName, compiler.ErrFragmentNotFound)
	}
	return fragment, nil
}
