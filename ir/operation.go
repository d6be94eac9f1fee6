package ir

import "github.com/vektah/gqlparser/v2/ast"

type Operation struct {
	FilePath      string
	OperationName string
	OperationType ast.Operation
	Variables     []*Variable
	// Source is the canonical re-print of the operation definition.
	Source       string
	RootType     *ast.Definition
	SelectionSet *SelectionSet
}

type Variable struct {
	Name string
	Type *ast.Type
}

type Fragment struct {
	FragmentName string
	FilePath     string
	Source       string
	Type         *ast.Definition
	SelectionSet *SelectionSet
}
