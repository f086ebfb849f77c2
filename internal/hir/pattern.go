package hir

import (
	"github.com/orizon-lang/orizon/internal/arena"
	"github.com/orizon-lang/orizon/internal/interner"
	"github.com/orizon-lang/orizon/internal/position"
)

// PatternId is a handle into the pattern arena.
type PatternId = arena.Index[Pattern]

// PatternKind tags the alternative held by a Pattern's Data field.
type PatternKind int

const (
	PatternWildcard PatternKind = iota
	PatternBinding
	PatternLiteral
	PatternTuple
	PatternStruct
	PatternEnum
	PatternOr
	PatternRange
)

// Pattern is a closed sum over HIR pattern nodes.
type Pattern struct {
	Kind PatternKind
	Span position.Span
	Data interface{}
}

// BindingPattern binds Name to the matched value; SubPattern carries
// `@`-patterns (`name @ sub`), nil when absent. Def is the LocalId
// lowering assigns this binding when it registers it in its scope
// (spec §4.2); it is already set when lowering finishes.
type BindingPattern struct {
	Name       interner.Symbol
	Mutable    bool
	SubPattern *PatternId
	Def        *DefId
}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	Value LiteralValue
}

// TuplePattern destructures a tuple positionally.
type TuplePattern struct {
	Patterns []PatternId
}

// FieldPattern is one `name: pattern` entry of a struct pattern.
type FieldPattern struct {
	Name    interner.Symbol
	Pattern PatternId
}

// StructPattern destructures a struct by field name. Ty is set by
// lowering to the struct's TypeId when the name is already registered.
type StructPattern struct {
	TypeName interner.Symbol
	Ty       *TypeId
	Fields   []FieldPattern
}

// EnumPattern destructures an enum variant. Def is set by lowering to
// the enum's TypeId when the enum name is already registered.
type EnumPattern struct {
	EnumName    interner.Symbol
	Variant     interner.Symbol
	Def         *TypeId
	SubPatterns []PatternId
}

// OrPattern matches if any alternative matches. All alternatives must
// bind identical name sets (Open Question 2, enforced by the resolver);
// the types of the bindings are not compared.
type OrPattern struct {
	Patterns []PatternId
}

// RangePattern matches an inclusive or exclusive numeric range.
type RangePattern struct {
	Start     LiteralValue
	End       LiteralValue
	Inclusive bool
}
