// Package cstnode defines the narrow adapter the lowering pass consumes
// instead of depending on any particular parser's concrete syntax tree.
// A grammar-driven parser is an external collaborator (spec §1); this
// package only names the shape lowering needs from one.
package cstnode

import "github.com/orizon-lang/orizon/internal/position"

// SyntaxKind enumerates the node kinds the lowerer recognizes. Kinds not in
// this list are tolerated: lowering degrades gracefully rather than
// rejecting the tree.
type SyntaxKind int

const (
	KindUnknown SyntaxKind = iota
	KindFunction
	KindStruct
	KindEnum
	KindTrait
	KindImpl
	KindExternBlock
	KindModule
	KindUse
	KindBlock
	KindLet
	KindReturn
	KindIf
	KindMatch
	KindLiteral
	KindIdentifier
	KindBinaryOp
	KindUnaryOp
	KindCall
	KindMethodCall
	KindField
	KindStructConstruct
	KindEnumVariant
	KindClosure
	KindParameters
	KindParameter
	KindGenericParams
	KindArguments
	KindType
	KindPattern
	KindMatchArm
)

// Node is the interface lowering consults. A concrete parser's CST node
// type implements this directly; no conversion step is required.
type Node interface {
	Kind() SyntaxKind
	Text() string
	Children() []Node
	Span() position.Span
}

// Tree is an in-memory Node built without a real parser, used by
// internal/demoprograms and by lowering's own tests. It implements Node.
type Tree struct {
	kind     SyntaxKind
	text     string
	children []Node
	span     position.Span
}

// NewTree constructs a Tree node.
func NewTree(kind SyntaxKind, text string, span position.Span, children ...Node) *Tree {
	return &Tree{kind: kind, text: text, span: span, children: children}
}

func (t *Tree) Kind() SyntaxKind     { return t.kind }
func (t *Tree) Text() string         { return t.text }
func (t *Tree) Children() []Node     { return t.children }
func (t *Tree) Span() position.Span  { return t.span }

// Child returns the i-th child, or nil if out of range.
func Child(n Node, i int) Node {
	children := n.Children()
	if i < 0 || i >= len(children) {
		return nil
	}
	return children[i]
}

// ChildrenOfKind filters n's children to those with the given kind.
func ChildrenOfKind(n Node, kind SyntaxKind) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstOfKind returns the first child with the given kind, or nil.
func FirstOfKind(n Node, kind SyntaxKind) Node {
	for _, c := range n.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func (k SyntaxKind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindTrait:
		return "Trait"
	case KindImpl:
		return "Impl"
	case KindExternBlock:
		return "ExternBlock"
	case KindModule:
		return "Module"
	case KindUse:
		return "Use"
	case KindBlock:
		return "Block"
	case KindLet:
		return "Let"
	case KindReturn:
		return "Return"
	case KindIf:
		return "If"
	case KindMatch:
		return "Match"
	case KindLiteral:
		return "Literal"
	case KindIdentifier:
		return "Identifier"
	case KindBinaryOp:
		return "BinaryOp"
	case KindUnaryOp:
		return "UnaryOp"
	case KindCall:
		return "Call"
	case KindMethodCall:
		return "MethodCall"
	case KindField:
		return "Field"
	case KindStructConstruct:
		return "StructConstruct"
	case KindEnumVariant:
		return "EnumVariant"
	case KindClosure:
		return "Closure"
	case KindParameters:
		return "Parameters"
	case KindParameter:
		return "Parameter"
	case KindGenericParams:
		return "GenericParams"
	case KindArguments:
		return "Arguments"
	case KindType:
		return "Type"
	case KindPattern:
		return "Pattern"
	case KindMatchArm:
		return "MatchArm"
	default:
		return "Unknown"
	}
}
