package testutils

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	_ "github.com/vektah/gqlparser/v2/validator/rules"
)

// LoadSchema parses source on top of the prelude and validates it.
func LoadSchema(t TestingT, name, source string) *ast.Schema {
	t.Helper()

	schemaDoc, gErr := parser.ParseSchemas(validator.Prelude, &ast.Source{
		Name:  name,
		Input: source,
	})
	if gErr != nil {
		t.Fatal(gErr)
	}

	schema, vErr := validator.ValidateSchemaDocument(schemaDoc)
	if vErr != nil {
		t.Fatal(vErr)
	}

	return schema
}

// LoadQuery parses source and runs the full validation against schema.
func LoadQuery(t TestingT, schema *ast.Schema, name, source string) *ast.QueryDocument {
	t.Helper()

	doc, gErr := parser.ParseQuery(&ast.Source{
		Name:  name,
		Input: source,
	})
	if gErr != nil {
		t.Fatal(gErr)
	}

	gErrs := validator.Validate(schema, doc)
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}

	return doc
}

// ParseQuery parses source without validation, for documents the validator rejects.
func ParseQuery(t TestingT, name, source string) *ast.QueryDocument {
	t.Helper()

	doc, gErr := parser.ParseQuery(&ast.Source{
		Name:  name,
		Input: source,
	})
	if gErr != nil {
		t.Fatal(gErr)
	}

	return doc
}
