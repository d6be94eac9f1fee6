package compiler

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vvakame/gqlir/internal/graphql"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/internal/utils"
	"github.com/vvakame/gqlir/ir"
)

// CompileToIR compiles every operation and fragment of an already validated
// document. The logger is taken from ctx.
func CompileToIR(ctx context.Context, schema *ast.Schema, document *ast.QueryDocument, opts ...Option) (*Context, error) {
	logger := log.FromContext(ctx)

	options := newOptions(opts...)
	if options.AddTypename {
		document = AddTypename(document)
	}

	compiler := NewCompiler(schema, options)
	cctx := newContext(schema, options)

	for _, operationDefinition := range document.Operations {
		operation, err := compiler.CompileOperation(operationDefinition)
		if err != nil {
			return nil, err
		}
		log.Debug(ctx).Info(
			"compiled operation",
			"name", operation.OperationName,
			"operation", operation.OperationType,
			"filePath", operation.FilePath,
		)
		cctx.addOperation(operation)
	}

	for _, fragmentDefinition := range document.Fragments {
		fragment, err := compiler.CompileFragment(fragmentDefinition)
		if err != nil {
			return nil, err
		}
		log.Debug(ctx).Info(
			"compiled fragment",
			"name", fragment.FragmentName,
			"type", fragment.Type.Name,
			"filePath", fragment.FilePath,
		)
		cctx.addFragment(fragment)
	}

	cctx.TypesUsed = compiler.TypesUsed()

	logger.Info(
		"compiled document",
		"operations", len(cctx.OperationNames),
		"fragments", len(cctx.FragmentNames),
		"typesUsed", utils.TypeNames(cctx.TypesUsed),
		"addTypename", options.AddTypename,
	)

	return cctx, nil
}

// Compiler turns AST definitions into IR. It accumulates the types used by
// everything it compiled, so use one Compiler per document.
type Compiler struct {
	schema  *ast.Schema
	options *Options

	typesUsed    []*ast.Definition
	typesUsedSet map[*ast.Definition]struct{}
}

func NewCompiler(schema *ast.Schema, options *Options) *Compiler {
	if options == nil {
		options = newOptions()
	}
	return &Compiler{
		schema:       schema,
		options:      options,
		typesUsedSet: make(map[*ast.Definition]struct{}),
	}
}

func (c *Compiler) TypesUsed() []*ast.Definition {
	typesUsed := make([]*ast.Definition, len(c.typesUsed))
	copy(typesUsed, c.typesUsed)
	return typesUsed
}

// addTypeUsed registers enums, input objects and custom scalars.
// Input objects are walked so that types only nested in them are found too.
func (c *Compiler) addTypeUsed(typ *ast.Definition) {
	if _, ok := c.typesUsedSet[typ]; ok {
		return
	}

	switch typ.Kind {
	case ast.Enum, ast.InputObject:
		c.typesUsedSet[typ] = struct{}{}
		c.typesUsed = append(c.typesUsed, typ)
	case ast.Scalar:
		if !graphql.IsSpecifiedScalarType(typ) {
			c.typesUsedSet[typ] = struct{}{}
			c.typesUsed = append(c.typesUsed, typ)
		}
	}

	if typ.Kind == ast.InputObject {
		for _, fieldDef := range typ.Fields {
			fieldType := c.schema.Types[fieldDef.Type.Name()]
			if fieldType == nil {
				continue
			}
			c.addTypeUsed(fieldType)
		}
	}
}

func (c *Compiler) CompileOperation(operationDefinition *ast.OperationDefinition) (*ir.Operation, error) {
	if operationDefinition.Name == "" {
		return nil, errorPosf(ErrMissingOperationName, operationDefinition.Position, "operations should be named")
	}

	variables := make([]*ir.Variable, 0, len(operationDefinition.VariableDefinitions))
	for _, varDef := range operationDefinition.VariableDefinitions {
		typ := c.schema.Types[varDef.Type.Name()]
		if typ == nil {
			return nil, errorPosf(ErrUnknownType, varDef.Position, `unknown type "%s" of variable "$%s"`, varDef.Type.Name(), varDef.Variable)
		}
		c.addTypeUsed(typ)
		variables = append(variables, &ir.Variable{
			Name: varDef.Variable,
			Type: varDef.Type,
		})
	}

	rootType, err := c.operationRootType(operationDefinition)
	if err != nil {
		return nil, err
	}

	selectionSet, err := c.compileSelectionSet(operationDefinition.SelectionSet, rootType, c.possibleTypesForType(rootType), nil)
	if err != nil {
		return nil, err
	}

	return &ir.Operation{
		FilePath:      filePathForPosition(operationDefinition.Position),
		OperationName: operationDefinition.Name,
		OperationType: operationDefinition.Operation,
		Variables:     variables,
		Source:        printQueryDocument(&ast.QueryDocument{Operations: ast.OperationList{operationDefinition}}),
		RootType:      rootType,
		SelectionSet:  selectionSet,
	}, nil
}

func (c *Compiler) CompileFragment(fragmentDefinition *ast.FragmentDefinition) (*ir.Fragment, error) {
	typ := c.schema.Types[fragmentDefinition.TypeCondition]
	if typ == nil {
		return nil, errorPosf(ErrUnknownType, fragmentDefinition.Position, `unknown type "%s" of fragment "%s"`, fragmentDefinition.TypeCondition, fragmentDefinition.Name)
	}

	selectionSet, err := c.compileSelectionSet(fragmentDefinition.SelectionSet, typ, c.possibleTypesForType(typ), nil)
	if err != nil {
		return nil, err
	}

	return &ir.Fragment{
		FragmentName: fragmentDefinition.Name,
		FilePath:     filePathForPosition(fragmentDefinition.Position),
		Source:       printQueryDocument(&ast.QueryDocument{Fragments: ast.FragmentDefinitionList{fragmentDefinition}}),
		Type:         typ,
		SelectionSet: selectionSet,
	}, nil
}

func (c *Compiler) operationRootType(operationDefinition *ast.OperationDefinition) (*ast.Definition, error) {
	var rootType *ast.Definition
	switch operationDefinition.Operation {
	case ast.Query:
		rootType = c.schema.Query
	case ast.Mutation:
		rootType = c.schema.Mutation
	case ast.Subscription:
		rootType = c.schema.Subscription
	default:
		return nil, fmt.Errorf("unexpected operation: %s", operationDefinition.Operation)
	}

	if rootType == nil {
		return nil, errorPosf(ErrMissingRootType, operationDefinition.Position, "schema is not configured for %s operations", operationDefinition.Operation)
	}

	return rootType, nil
}

// compileSelectionSet compiles one selection list. visitedFragments only
// spans this list: nested fields and inline fragments start with their own,
// so the same spread in two sibling branches is kept in both.
func (c *Compiler) compileSelectionSet(selectionSetNode ast.SelectionSet, parentType *ast.Definition, possibleTypes []*ast.Definition, visitedFragments map[string]struct{}) (*ir.SelectionSet, error) {
	if visitedFragments == nil {
		visitedFragments = make(map[string]struct{})
	}

	selections := make([]ir.Selection, 0, len(selectionSetNode))
	for _, selectionNode := range selectionSetNode {
		selection, err := c.compileSelection(selectionNode, parentType, possibleTypes, visitedFragments)
		if err != nil {
			return nil, err
		}
		selection = wrapInBooleanConditionsIfNeeded(selection, directivesOf(selectionNode), possibleTypes)
		if selection == nil {
			continue
		}
		selections = append(selections, selection)
	}

	return &ir.SelectionSet{
		PossibleTypes: possibleTypes,
		Selections:    selections,
	}, nil
}

// compileSelection returns a nil Selection when the node is suppressed.
func (c *Compiler) compileSelection(selectionNode ast.Selection, parentType *ast.Definition, possibleTypes []*ast.Definition, visitedFragments map[string]struct{}) (ir.Selection, error) {
	switch selectionNode := selectionNode.(type) {
	case *ast.Field:
		return c.compileField(selectionNode, parentType)

	case *ast.InlineFragment:
		typ := parentType
		if selectionNode.TypeCondition != "" {
			typ = c.schema.Types[selectionNode.TypeCondition]
			if typ == nil {
				return nil, errorPosf(ErrUnknownType, selectionNode.Position, `unknown type "%s"`, selectionNode.TypeCondition)
			}
		}
		possibleTypesForTypeCondition := utils.IntersectTypes(c.possibleTypesForType(typ), possibleTypes)
		selectionSet, err := c.compileSelectionSet(selectionNode.SelectionSet, typ, possibleTypesForTypeCondition, nil)
		if err != nil {
			return nil, err
		}
		return &ir.TypeCondition{
			Type:         typ,
			SelectionSet: selectionSet,
		}, nil

	case *ast.FragmentSpread:
		fragmentName := selectionNode.Name
		if _, ok := visitedFragments[fragmentName]; ok {
			return nil, nil
		}
		visitedFragments[fragmentName] = struct{}{}
		return &ir.FragmentSpread{
			FragmentName: fragmentName,
		}, nil

	default:
		return nil, fmt.Errorf("unexpected selection type: %T", selectionNode)
	}
}

func (c *Compiler) compileField(fieldNode *ast.Field, parentType *ast.Definition) (*ir.Field, error) {
	name := fieldNode.Name
	// gqlparser fills Alias with Name when the query has no alias
	var alias string
	if fieldNode.Alias != "" && fieldNode.Alias != name {
		alias = fieldNode.Alias
	}

	fieldDef := graphql.FieldDef(c.schema, parentType, name)
	if fieldDef == nil {
		return nil, errorPosf(ErrUnknownField, fieldNode.Position, `cannot query field "%s" on type "%s"`, name, parentType.Name)
	}

	unmodifiedFieldType := c.schema.Types[fieldDef.Type.Name()]
	if unmodifiedFieldType == nil {
		return nil, errorPosf(ErrUnknownType, fieldNode.Position, `unknown type "%s" of field "%s"`, fieldDef.Type.Name(), name)
	}
	c.addTypeUsed(unmodifiedFieldType)

	var args []*ir.Argument
	for _, argNode := range fieldNode.Arguments {
		if argDef := fieldDef.Arguments.ForName(argNode.Name); argDef != nil {
			if argType := c.schema.Types[argDef.Type.Name()]; argType != nil {
				c.addTypeUsed(argType)
			}
		}
		args = append(args, &ir.Argument{
			Name:  argNode.Name,
			Value: ir.ValueFromAST(argNode.Value),
		})
	}

	var description string
	if !graphql.IsMetaFieldName(name) {
		description = fieldDef.Description
	}
	isDeprecated, deprecationReason := graphql.Deprecation(fieldDef.Directives)

	responseKey := name
	if alias != "" {
		responseKey = alias
	}

	field := &ir.Field{
		ResponseKey:       responseKey,
		Name:              name,
		Alias:             alias,
		Arguments:         args,
		Type:              fieldDef.Type,
		Description:       description,
		IsDeprecated:      isDeprecated,
		DeprecationReason: deprecationReason,
	}

	if utils.IsCompositeType(unmodifiedFieldType) {
		if len(fieldNode.SelectionSet) == 0 {
			return nil, errorPosf(ErrMissingSelectionSet, fieldNode.Position, `composite field "%s" on type "%s" requires selection set`, name, parentType.Name)
		}
		selectionSet, err := c.compileSelectionSet(fieldNode.SelectionSet, unmodifiedFieldType, c.possibleTypesForType(unmodifiedFieldType), nil)
		if err != nil {
			return nil, err
		}
		field.SelectionSet = selectionSet
	}

	return field, nil
}

func (c *Compiler) possibleTypesForType(typ *ast.Definition) []*ast.Definition {
	return utils.PossibleTypes(c.schema, typ)
}

// wrapInBooleanConditionsIfNeeded folds @skip/@include in source order.
// A literal argument decides immediately: nil drops the selection.
// A variable wraps the selection into a BooleanCondition.
func wrapInBooleanConditionsIfNeeded(selection ir.Selection, directives ast.DirectiveList, possibleTypes []*ast.Definition) ir.Selection {
	if selection == nil {
		return nil
	}

	for _, directive := range directives {
		if !graphql.IsConditionalDirective(directive) {
			continue
		}
		arg := directive.Arguments.ForName("if")
		if arg == nil || arg.Value == nil {
			continue
		}

		inverted := directive.Name == graphql.SkipDirectiveName
		switch arg.Value.Kind {
		case ast.BooleanValue:
			if (arg.Value.Raw == "true") == inverted {
				return nil
			}
			return selection

		case ast.Variable:
			selection = &ir.BooleanCondition{
				VariableName: arg.Value.Raw,
				Inverted:     inverted,
				SelectionSet: &ir.SelectionSet{
					PossibleTypes: possibleTypes,
					Selections:    []ir.Selection{selection},
				},
			}
		}
	}

	return selection
}

func directivesOf(selectionNode ast.Selection) ast.DirectiveList {
	switch selectionNode := selectionNode.(type) {
	case *ast.Field:
		return selectionNode.Directives
	case *ast.InlineFragment:
		return selectionNode.Directives
	case *ast.FragmentSpread:
		return selectionNode.Directives
	default:
		return nil
	}
}

func filePathForPosition(pos *ast.Position) string {
	if pos == nil || pos.Src == nil {
		return ""
	}
	return pos.Src.Name
}

// printQueryDocument is the canonical printer. formatting of the input
// doesn't leak into Source, so it doesn't leak into operation ids either.
func printQueryDocument(document *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(document)
	return strings.TrimRight(buf.String(), "\n")
}
