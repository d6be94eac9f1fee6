package compiler

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/ir"
)

// Context is the result of compiling one document. It is read-only once
// CompileToIR returns, so lookups are safe from multiple goroutines.
type Context struct {
	Schema *ast.Schema
	// TypesUsed lists enums, input objects and custom scalars reachable from
	// the document, in the order they were first seen.
	TypesUsed  []*ast.Definition
	Operations map[string]*ir.Operation
	Fragments  map[string]*ir.Fragment
	Options    *Options

	// Go maps don't keep insertion order. these keep document order.
	OperationNames []string
	FragmentNames  []string
}

func newContext(schema *ast.Schema, options *Options) *Context {
	return &Context{
		Schema:     schema,
		Operations: make(map[string]*ir.Operation),
		Fragments:  make(map[string]*ir.Fragment),
		Options:    options,
	}
}

func (cctx *Context) addOperation(operation *ir.Operation) {
	if _, ok := cctx.Operations[operation.OperationName]; !ok {
		cctx.OperationNames = append(cctx.OperationNames, operation.OperationName)
	}
	cctx.Operations[operation.OperationName] = operation
}

func (cctx *Context) addFragment(fragment *ir.Fragment) {
	if _, ok := cctx.Fragments[fragment.FragmentName]; !ok {
		cctx.FragmentNames = append(cctx.FragmentNames, fragment.FragmentName)
	}
	cctx.Fragments[fragment.FragmentName] = fragment
}

// FragmentNamed resolves a fragment spread against the registry.
func (cctx *Context) FragmentNamed(fragmentName string) (*ir.Fragment, error) {
	fragment := cctx.Fragments[fragmentName]
	if fragment == nil {
		return nil, errorPosf(ErrFragmentNotFound, nil, `cannot find fragment "%s"`, fragmentName)
	}

	return fragment, nil
}

// OperationList returns the operations in document order.
func (cctx *Context) OperationList() []*ir.Operation {
	operations := make([]*ir.Operation, 0, len(cctx.OperationNames))
	for _, name := range cctx.OperationNames {
		operations = append(operations, cctx.Operations[name])
	}
	return operations
}

// FragmentList returns the fragments in document order.
func (cctx *Context) FragmentList() []*ir.Fragment {
	fragments := make([]*ir.Fragment, 0, len(cctx.FragmentNames))
	for _, name := range cctx.FragmentNames {
		fragments = append(fragments, cctx.Fragments[name])
	}
	return fragments
}
