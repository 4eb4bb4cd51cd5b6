// Package ast defines the syntax tree for contract source units.
//
// Each grammar family is a sealed interface closed by an unexported marker
// method. Every node carries the span of source it was built from. Nodes are
// owned by their parent; the SourceUnit owns the whole tree.
package ast

import (
	"strings"

	"github.com/raymyers/ralph-sol/pkg/diag"
)

// Node is implemented by every tree node.
type Node interface {
	Span() diag.Span
}

// SourceItem is a top-level element of a source unit.
type SourceItem interface {
	Node
	implSourceItem()
}

// BodyElement is an element of a contract, interface or library body.
type BodyElement interface {
	Node
	implBodyElement()
}

// TypeName is a type reference.
type TypeName interface {
	Node
	implTypeName()
}

// SourceUnit is the root of the tree: one parse of one file's text.
type SourceUnit struct {
	Loc   diag.Span
	Items []SourceItem
}

// IdentifierPath is a dotted name such as A.B.C.
type IdentifierPath struct {
	Loc   diag.Span
	Parts []string
}

func (p *IdentifierPath) String() string {
	return strings.Join(p.Parts, ".")
}

// PragmaDirective holds the opaque chunks between 'pragma' and ';'.
type PragmaDirective struct {
	Loc    diag.Span
	Tokens []string
}

// ImportDirective covers the three import forms:
//
//	import "path" as Alias;
//	import {a as b, c} from "path";
//	import * as Alias from "path";
type ImportDirective struct {
	Loc       diag.Span
	Path      string // unquoted
	UnitAlias string
	Symbols   []ImportSymbol
	Wildcard  bool
}

// ImportSymbol is one entry of an import's symbol list.
type ImportSymbol struct {
	Name  string
	Alias string
}

// ContractKind distinguishes the three contract-like definitions.
type ContractKind int

const (
	KindContract ContractKind = iota
	KindInterface
	KindLibrary
)

func (k ContractKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindLibrary:
		return "library"
	}
	return "contract"
}

// ContractDefinition is a contract, interface or library. The three kinds
// share one body grammar.
type ContractDefinition struct {
	Loc      diag.Span
	Kind     ContractKind
	Abstract bool
	Name     string
	Bases    []*InheritanceSpecifier
	Body     []BodyElement
}

// InheritanceSpecifier names a base, optionally with constructor arguments.
type InheritanceSpecifier struct {
	Loc  diag.Span
	Base *IdentifierPath
	Args *CallArguments
}

// StructDefinition declares a struct type.
type StructDefinition struct {
	Loc     diag.Span
	Name    string
	Members []*VariableDeclaration
}

// EnumDefinition declares an enum type.
type EnumDefinition struct {
	Loc     diag.Span
	Name    string
	Members []string
}

// UserDefinedValueType is 'type Name is underlying;'.
type UserDefinedValueType struct {
	Loc        diag.Span
	Name       string
	Underlying *ElementaryType
}

// ErrorDefinition declares a custom error.
type ErrorDefinition struct {
	Loc    diag.Span
	Name   string
	Params []*Parameter
}

// EventDefinition declares an event.
type EventDefinition struct {
	Loc       diag.Span
	Name      string
	Params    []*EventParameter
	Anonymous bool
}

// EventParameter is a parameter of an event.
type EventParameter struct {
	Loc     diag.Span
	Type    TypeName
	Indexed bool
	Name    string
}

// UsingDirective attaches library functions to a type. Target is nil for
// 'for *'.
type UsingDirective struct {
	Loc       diag.Span
	Library   *IdentifierPath
	Functions []UsingAlias
	Target    TypeName
	Global    bool
}

// UsingAlias is one entry of 'using {f, g as +} for T'.
type UsingAlias struct {
	Path     *IdentifierPath
	Operator string
}

// FunctionKind distinguishes the definitions sharing the function shape.
type FunctionKind int

const (
	FuncFunction FunctionKind = iota
	FuncConstructor
	FuncFallback
	FuncReceive
)

func (k FunctionKind) String() string {
	switch k {
	case FuncConstructor:
		return "constructor"
	case FuncFallback:
		return "fallback"
	case FuncReceive:
		return "receive"
	}
	return "function"
}

// FunctionDefinition covers functions, constructors, fallback and receive
// functions. Body is nil when the definition ends in ';'.
type FunctionDefinition struct {
	Loc        diag.Span
	Kind       FunctionKind
	Name       string
	Params     []*Parameter
	Returns    []*Parameter
	Visibility string
	Mutability string
	Virtual    bool
	Overrides  *OverrideSpecifier
	Modifiers  []*ModifierInvocation
	Body       *Block
}

// ModifierDefinition declares a function modifier. Params is nil when the
// parameter list is omitted entirely.
type ModifierDefinition struct {
	Loc       diag.Span
	Name      string
	Params    []*Parameter
	Virtual   bool
	Overrides *OverrideSpecifier
	Body      *Block
}

// ModifierInvocation is a modifier or base constructor call in a function
// header.
type ModifierInvocation struct {
	Loc  diag.Span
	Path *IdentifierPath
	Args *CallArguments
}

// OverrideSpecifier is 'override' with an optional list of bases.
type OverrideSpecifier struct {
	Loc   diag.Span
	Bases []*IdentifierPath
}

// Parameter is a function, error or return parameter.
type Parameter struct {
	Loc      diag.Span
	Type     TypeName
	Location string // memory, storage, calldata or empty
	Name     string
}

// StateVariableDeclaration is a variable declared in a contract body.
type StateVariableDeclaration struct {
	Loc        diag.Span
	Type       TypeName
	Name       string
	Visibility string
	Constant   bool
	Immutable  bool
	Transient  bool
	Overrides  *OverrideSpecifier
	Value      Expr
}

// ConstantVariableDeclaration is a file-level constant.
type ConstantVariableDeclaration struct {
	Loc   diag.Span
	Type  TypeName
	Name  string
	Value Expr
}

// CallArguments is a parenthesised argument list, either positional or
// named ('f({a: 1})').
type CallArguments struct {
	Loc        diag.Span
	Positional []Expr
	Named      []*NamedArgument
	IsNamed    bool
}

// NamedArgument is 'name: value'.
type NamedArgument struct {
	Loc   diag.Span
	Name  string
	Value Expr
}

// ElementaryType is a built-in type name. Payable is only set for
// 'address payable'.
type ElementaryType struct {
	Loc     diag.Span
	Name    string
	Payable bool
}

// UserDefinedType refers to a named type.
type UserDefinedType struct {
	Loc  diag.Span
	Path *IdentifierPath
}

// MappingType is 'mapping(K name => V name)'.
type MappingType struct {
	Loc       diag.Span
	Key       TypeName
	KeyName   string
	Value     TypeName
	ValueName string
}

// FunctionType is a function type name.
type FunctionType struct {
	Loc        diag.Span
	Params     []*Parameter
	Returns    []*Parameter
	Visibility string
	Mutability string
}

// ArrayType is T[] or T[length].
type ArrayType struct {
	Loc    diag.Span
	Elem   TypeName
	Length Expr
}

func (n *SourceUnit) Span() diag.Span                  { return n.Loc }
func (n *IdentifierPath) Span() diag.Span              { return n.Loc }
func (n *PragmaDirective) Span() diag.Span             { return n.Loc }
func (n *ImportDirective) Span() diag.Span             { return n.Loc }
func (n *ContractDefinition) Span() diag.Span          { return n.Loc }
func (n *InheritanceSpecifier) Span() diag.Span        { return n.Loc }
func (n *StructDefinition) Span() diag.Span            { return n.Loc }
func (n *EnumDefinition) Span() diag.Span              { return n.Loc }
func (n *UserDefinedValueType) Span() diag.Span        { return n.Loc }
func (n *ErrorDefinition) Span() diag.Span             { return n.Loc }
func (n *EventDefinition) Span() diag.Span             { return n.Loc }
func (n *EventParameter) Span() diag.Span              { return n.Loc }
func (n *UsingDirective) Span() diag.Span              { return n.Loc }
func (n *FunctionDefinition) Span() diag.Span          { return n.Loc }
func (n *ModifierDefinition) Span() diag.Span          { return n.Loc }
func (n *ModifierInvocation) Span() diag.Span          { return n.Loc }
func (n *OverrideSpecifier) Span() diag.Span           { return n.Loc }
func (n *Parameter) Span() diag.Span                   { return n.Loc }
func (n *StateVariableDeclaration) Span() diag.Span    { return n.Loc }
func (n *ConstantVariableDeclaration) Span() diag.Span { return n.Loc }
func (n *CallArguments) Span() diag.Span               { return n.Loc }
func (n *NamedArgument) Span() diag.Span               { return n.Loc }
func (n *ElementaryType) Span() diag.Span              { return n.Loc }
func (n *UserDefinedType) Span() diag.Span             { return n.Loc }
func (n *MappingType) Span() diag.Span                 { return n.Loc }
func (n *FunctionType) Span() diag.Span                { return n.Loc }
func (n *ArrayType) Span() diag.Span                   { return n.Loc }

// Marker methods for interface implementation
func (*PragmaDirective) implSourceItem()             {}
func (*ImportDirective) implSourceItem()             {}
func (*ContractDefinition) implSourceItem()          {}
func (*StructDefinition) implSourceItem()            {}
func (*EnumDefinition) implSourceItem()              {}
func (*UserDefinedValueType) implSourceItem()        {}
func (*ErrorDefinition) implSourceItem()             {}
func (*EventDefinition) implSourceItem()             {}
func (*UsingDirective) implSourceItem()              {}
func (*FunctionDefinition) implSourceItem()          {}
func (*ConstantVariableDeclaration) implSourceItem() {}

func (*StructDefinition) implBodyElement()         {}
func (*EnumDefinition) implBodyElement()           {}
func (*UserDefinedValueType) implBodyElement()     {}
func (*ErrorDefinition) implBodyElement()          {}
func (*EventDefinition) implBodyElement()          {}
func (*UsingDirective) implBodyElement()           {}
func (*FunctionDefinition) implBodyElement()       {}
func (*ModifierDefinition) implBodyElement()       {}
func (*StateVariableDeclaration) implBodyElement() {}

func (*ElementaryType) implTypeName()  {}
func (*UserDefinedType) implTypeName() {}
func (*MappingType) implTypeName()     {}
func (*FunctionType) implTypeName()    {}
func (*ArrayType) implTypeName()       {}
