// Package project drives the compiler over the projects of a config file.
package project

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/vvakame/gqlir/compiler"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/ir"
	"github.com/vvakame/gqlir/normalize"
	"github.com/vvakame/gqlir/persisted"
)

type Result struct {
	Project  *ProjectConfig
	Context  *compiler.Context
	Manifest *persisted.Manifest
}

// Compile loads and compiles the project. Nothing is written.
func (p *ProjectConfig) Compile(ctx context.Context) (*Result, error) {
	schema, err := p.LoadSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}

	document, err := p.LoadDocument(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}

	cctx, err := compiler.CompileToIR(ctx, schema, document, compiler.WithAddTypename(p.AddTypename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}

	manifest, err := persisted.Build(cctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}

	return &Result{
		Project:  p,
		Context:  cctx,
		Manifest: manifest,
	}, nil
}

// Write emits every output configured for the project.
func (r *Result) Write(ctx context.Context, stdout io.Writer) error {
	logger := log.FromContext(ctx)
	p := r.Project

	if p.Output.IR != "" {
		b, err := r.Encode()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if p.Output.IR == "-" {
			if _, err := stdout.Write(b); err != nil {
				return err
			}
		} else if err := writeFile(p.resolve(p.Output.IR), b); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		logger.Info("IR written", "project", p.Name, "path", p.Output.IR)
	}

	if p.Output.Manifest != "" {
		var buf bytes.Buffer
		if err := r.Manifest.WriteJSON(&buf); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if err := writeFile(p.resolve(p.Output.Manifest), buf.Bytes()); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		logger.Info("manifest written", "project", p.Name, "path", p.Output.Manifest, "operations", len(r.Manifest.IDs()))
	}

	if p.Output.OperationsDir != "" {
		if err := r.Manifest.WriteDir(p.resolve(p.Output.OperationsDir)); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		logger.Info("operations written", "project", p.Name, "path", p.Output.OperationsDir)
	}

	return nil
}

// Encode renders the compiled document in the configured format.
func (r *Result) Encode() ([]byte, error) {
	format, err := r.Project.Output.format()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(r.Context, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil

	case FormatText:
		return r.formatText()

	default:
		return yaml.Marshal(r.Context)
	}
}

func (r *Result) formatText() ([]byte, error) {
	var buf bytes.Buffer
	f := ir.NewFormatter(&buf)

	for _, operation := range r.Context.OperationList() {
		if r.Project.Output.Normalize {
			normalized, err := normalizeOperation(r.Context, operation)
			if err != nil {
				return nil, err
			}
			operation = normalized
		}
		f.FormatOperation(operation)
	}
	if !r.Project.Output.Normalize {
		for _, fragment := range r.Context.FragmentList() {
			f.FormatFragment(fragment)
		}
	}

	return buf.Bytes(), nil
}

// normalizeOperation returns a copy of operation with its fragment spreads
// inlined and the type conditions that narrow nothing removed, at every level.
func normalizeOperation(cctx *compiler.Context, operation *ir.Operation) (*ir.Operation, error) {
	selectionSet, err := normalizeSelectionSet(cctx, operation.SelectionSet)
	if err != nil {
		return nil, err
	}

	normalized := *operation
	normalized.SelectionSet = selectionSet
	return &normalized, nil
}

func normalizeSelectionSet(cctx *compiler.Context, selectionSet *ir.SelectionSet) (*ir.SelectionSet, error) {
	merged, err := normalize.MergeInFragmentSpreads(cctx, selectionSet)
	if err != nil {
		return nil, err
	}
	merged = normalize.InlineRedundantTypeConditions(merged)

	return mapFieldSelectionSets(merged, func(selectionSet *ir.SelectionSet) (*ir.SelectionSet, error) {
		return normalizeSelectionSet(cctx, selectionSet)
	})
}

// mapFieldSelectionSets applies fn to the sub-selection of every field in
// selectionSet, through type and boolean conditions.
func mapFieldSelectionSets(selectionSet *ir.SelectionSet, fn func(*ir.SelectionSet) (*ir.SelectionSet, error)) (*ir.SelectionSet, error) {
	selections := make([]ir.Selection, 0, len(selectionSet.Selections))
	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *ir.Field:
			if selection.SelectionSet == nil {
				selections = append(selections, selection)
				continue
			}
			sub, err := fn(selection.SelectionSet)
			if err != nil {
				return nil, err
			}
			field := selection.Clone()
			field.SelectionSet = sub
			selections = append(selections, field)

		case *ir.TypeCondition:
			sub, err := mapFieldSelectionSets(selection.SelectionSet, fn)
			if err != nil {
				return nil, err
			}
			selections = append(selections, &ir.TypeCondition{Type: selection.Type, SelectionSet: sub})

		case *ir.BooleanCondition:
			sub, err := mapFieldSelectionSets(selection.SelectionSet, fn)
			if err != nil {
				return nil, err
			}
			selections = append(selections, &ir.BooleanCondition{
				VariableName: selection.VariableName,
				Inverted:     selection.Inverted,
				SelectionSet: sub,
			})

		default:
			selections = append(selections, selection)
		}
	}

	return &ir.SelectionSet{
		PossibleTypes: selectionSet.PossibleTypes,
		Selections:    selections,
	}, nil
}

func writeFile(filePath string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory of %s: %w", filePath, err)
	}
	if err := os.WriteFile(filePath, b, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	return nil
}
