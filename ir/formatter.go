package ir

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Formatter renders IR in an indented, GraphQL-like notation.
// Possible types follow each selection set header in brackets, field types follow "->".
type Formatter interface {
	FormatOperation(operation *Operation)
	FormatFragment(fragment *Fragment)
	FormatSelectionSet(selectionSet *SelectionSet)
	FormatSelection(selection Selection)
}

func NewFormatter(w io.Writer) Formatter {
	return &formatter{writer: w}
}

type formatter struct {
	writer io.Writer

	indent int

	padNext  bool
	lineHead bool
}

func (f *formatter) writeString(s string) {
	_, _ = f.writer.Write([]byte(s))
}

func (f *formatter) writeIndent() *formatter {
	if f.lineHead {
		f.writeString(strings.Repeat("\t", f.indent))
	}
	f.lineHead = false
	f.padNext = false

	return f
}

func (f *formatter) WriteNewline() *formatter {
	f.writeString("\n")
	f.lineHead = true
	f.padNext = false

	return f
}

func (f *formatter) WriteWord(word string) *formatter {
	if f.lineHead {
		f.writeIndent()
	}
	if f.padNext {
		f.writeString(" ")
	}
	f.writeString(strings.TrimSpace(word))
	f.padNext = true

	return f
}

func (f *formatter) IncrementIndent() {
	f.indent++
}

func (f *formatter) DecrementIndent() {
	f.indent--
}

func (f *formatter) FormatOperation(operation *Operation) {
	f.WriteWord(string(operation.OperationType))
	f.WriteWord(operation.OperationName + formatVariables(operation.Variables))
	f.FormatSelectionSet(operation.SelectionSet)
}

func (f *formatter) FormatFragment(fragment *Fragment) {
	f.WriteWord("fragment")
	f.WriteWord(fragment.FragmentName)
	f.WriteWord("on")
	f.WriteWord(fragment.Type.Name)
	f.FormatSelectionSet(fragment.SelectionSet)
}

func (f *formatter) FormatSelectionSet(selectionSet *SelectionSet) {
	f.WriteWord(formatTypeNames(selectionSet.PossibleTypes))
	f.WriteWord("{")
	f.WriteNewline()

	f.IncrementIndent()
	for _, selection := range selectionSet.Selections {
		f.FormatSelection(selection)
	}
	f.DecrementIndent()

	f.WriteWord("}")
	f.WriteNewline()
}

func (f *formatter) FormatSelection(selection Selection) {
	switch selection := selection.(type) {
	case *Field:
		var header string
		if selection.Alias != "" {
			header = selection.Alias + ": "
		}
		header += selection.Name + formatArguments(selection.Arguments)
		f.WriteWord(header)
		f.WriteWord("->")
		f.WriteWord(selection.Type.String())
		if selection.IsDeprecated {
			f.WriteWord("@deprecated")
		}
		if selection.SelectionSet != nil {
			f.FormatSelectionSet(selection.SelectionSet)
		} else {
			f.WriteNewline()
		}

	case *TypeCondition:
		f.WriteWord("... on")
		f.WriteWord(selection.Type.Name)
		f.FormatSelectionSet(selection.SelectionSet)

	case *BooleanCondition:
		directiveName := "@include"
		if selection.Inverted {
			directiveName = "@skip"
		}
		f.WriteWord(fmt.Sprintf("%s(if: $%s)", directiveName, selection.VariableName))
		f.FormatSelectionSet(selection.SelectionSet)

	case *FragmentSpread:
		f.WriteWord("..." + selection.FragmentName)
		f.WriteNewline()

	default:
		panic(fmt.Sprintf("unexpected selection type: %T", selection))
	}
}

func formatTypeNames(defs []*ast.Definition) string {
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func formatVariables(variables []*Variable) string {
	if len(variables) == 0 {
		return ""
	}

	parts := make([]string, 0, len(variables))
	for _, variable := range variables {
		parts = append(parts, fmt.Sprintf("$%s: %s", variable.Name, variable.Type.String()))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatArguments(args []*Argument) string {
	if len(args) == 0 {
		return ""
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.Name+": "+FormatValue(arg.Value))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatValue prints a value produced by ValueFromAST. object keys are sorted.
func FormatValue(value interface{}) string {
	switch value := value.(type) {
	case nil:
		return "null"
	case *VariableValue:
		return value.String()
	case string:
		return strconv.Quote(value)
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, elem := range value {
			parts = append(parts, FormatValue(elem))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+": "+FormatValue(value[key]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", value)
	}
}
