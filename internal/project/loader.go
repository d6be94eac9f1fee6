package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	_ "github.com/vektah/gqlparser/v2/validator/rules"
	"github.com/vvakame/gqlir/internal/log"
)

// expandGlobs resolves patterns against p.BaseDir. Files matched by more
// than one pattern are returned once, at their first match.
func (p *ProjectConfig) expandGlobs(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := filepath.Glob(p.resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no files match %s", p.Name, pattern)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}

	return files, nil
}

func readSources(files []string) ([]*ast.Source, error) {
	sources := make([]*ast.Source, 0, len(files))
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		sources = append(sources, &ast.Source{
			Name:  file,
			Input: string(b),
		})
	}

	return sources, nil
}

// LoadSchema parses and validates every schema file of the project.
func (p *ProjectConfig) LoadSchema(ctx context.Context) (*ast.Schema, error) {
	logger := log.FromContext(ctx)

	files, err := p.expandGlobs(p.Schema)
	if err != nil {
		return nil, err
	}
	sources, err := readSources(files)
	if err != nil {
		return nil, err
	}

	schemaDoc, gErr := parser.ParseSchemas(append([]*ast.Source{validator.Prelude}, sources...)...)
	if gErr != nil {
		return nil, gErr
	}
	schema, gErr2 := validator.ValidateSchemaDocument(schemaDoc)
	if gErr2 != nil {
		return nil, gErr2
	}

	logger.V(log.LevelDebug).Info("schema loaded", "project", p.Name, "files", files)

	return schema, nil
}

// LoadDocument parses every document file and validates them together, so
// fragments may be defined in another file than the operations using them.
func (p *ProjectConfig) LoadDocument(ctx context.Context, schema *ast.Schema) (*ast.QueryDocument, error) {
	logger := log.FromContext(ctx)

	files, err := p.expandGlobs(p.Documents)
	if err != nil {
		return nil, err
	}
	sources, err := readSources(files)
	if err != nil {
		return nil, err
	}

	document := &ast.QueryDocument{}
	for _, source := range sources {
		doc, gErr := parser.ParseQuery(source)
		if gErr != nil {
			return nil, gErr
		}
		document.Operations = append(document.Operations, doc.Operations...)
		document.Fragments = append(document.Fragments, doc.Fragments...)
	}

	gErrs := validator.Validate(schema, document)
	if len(gErrs) != 0 {
		return nil, gErrs
	}

	logger.V(log.LevelDebug).Info("documents loaded", "project", p.Name, "files", files)

	return document, nil
}
