package compiler

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/graphql"
)

// AddTypename returns a copy of document where every fragment definition and
// every field with a sub-selection starts with an unaliased __typename.
// Operation roots and inline fragments are only descended into.
// The input document is not modified, and running it twice adds nothing.
func AddTypename(document *ast.QueryDocument) *ast.QueryDocument {
	if document == nil {
		return nil
	}

	newDocument := &ast.QueryDocument{
		Position: document.Position,
	}

	for _, operation := range document.Operations {
		newOperation := *operation
		newOperation.SelectionSet = addTypenameToSelections(operation.SelectionSet, false)
		newDocument.Operations = append(newDocument.Operations, &newOperation)
	}

	for _, fragment := range document.Fragments {
		newFragment := *fragment
		newFragment.SelectionSet = addTypenameToSelections(fragment.SelectionSet, true)
		newDocument.Fragments = append(newDocument.Fragments, &newFragment)
	}

	return newDocument
}

func addTypenameToSelections(selectionSet ast.SelectionSet, withTypename bool) ast.SelectionSet {
	newSelectionSet := make(ast.SelectionSet, 0, len(selectionSet)+1)
	if withTypename && !hasUnaliasedTypename(selectionSet) {
		newSelectionSet = append(newSelectionSet, &ast.Field{
			Alias: graphql.TypeNameMetaFieldDef.Name,
			Name:  graphql.TypeNameMetaFieldDef.Name,
		})
	}

	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			if len(selection.SelectionSet) == 0 {
				newSelectionSet = append(newSelectionSet, selection)
				continue
			}
			newField := *selection
			newField.SelectionSet = addTypenameToSelections(selection.SelectionSet, true)
			newSelectionSet = append(newSelectionSet, &newField)

		case *ast.InlineFragment:
			newInlineFragment := *selection
			newInlineFragment.SelectionSet = addTypenameToSelections(selection.SelectionSet, false)
			newSelectionSet = append(newSelectionSet, &newInlineFragment)

		default:
			newSelectionSet = append(newSelectionSet, selection)
		}
	}

	return newSelectionSet
}

func hasUnaliasedTypename(selectionSet ast.SelectionSet) bool {
	for _, selection := range selectionSet {
		field, ok := selection.(*ast.Field)
		if !ok || field.Name != graphql.TypeNameMetaFieldDef.Name {
			continue
		}
		if field.Alias == "" || field.Alias == field.Name {
			return true
		}
	}
	return false
}
