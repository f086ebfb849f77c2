// Package mir implements the mid-level IR (spec §3 "MIR", §4.5, §4.6):
// the basic-block/local model every MirFunction is built from, the
// Place/Operand/RValue/Statement/Terminator vocabulary, and the
// HIR→MIR lowering pass that produces it. Grounded on the teacher's
// mir.HIRToMIRTransformer shape — an accumulating-errors struct that
// walks a higher IR and emits a lower one — generalized from the
// teacher's own MIR model to this pipeline's richer type universe
// (structs, enums, closures).
package mir

import (
	"fmt"

	"github.com/orizon-lang/orizon/internal/exhaustive"
	"github.com/orizon-lang/orizon/internal/hir"
)

// LocalId names a local within one MirFunction; locals are numbered
// from zero and the first paramCount locals are parameters.
type LocalId uint32

// MirTypeKind tags the alternative held by a MirType's Data field.
type MirTypeKind int

const (
	MirInt MirTypeKind = iota
	MirFloat
	MirBool
	MirString
	MirUnit
	MirNamed
	MirStruct
	MirEnum
	MirTuple
	MirArray
	MirSlice
	MirRef
	MirFn
)

// MirType is a closed sum over MIR's fully-elaborated type universe.
// Named is only legal for externally opaque types; every user struct or
// enum must already be elaborated into MirStruct/MirEnum by the time it
// reaches a MirType (spec §3, "Named must only remain for externally
// opaque types").
type MirType struct {
	Kind MirTypeKind
	Data interface{}
}

func (t MirType) String() string {
	switch t.Kind {
	case MirInt:
		return "i64"
	case MirFloat:
		return "f64"
	case MirBool:
		return "bool"
	case MirString:
		return "str"
	case MirUnit:
		return "()"
	case MirNamed:
		return t.Data.(MirNamedData).Name
	case MirStruct:
		return t.Data.(MirStructData).Name
	case MirEnum:
		return t.Data.(MirEnumData).Name
	case MirTuple:
		elems := t.Data.(MirTupleData).Elements
		s := "("
		for i, e := range elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case MirArray:
		d := t.Data.(MirArrayData)
		return fmt.Sprintf("[%s; %d]", d.Element.String(), d.Size)
	case MirSlice:
		return "[" + t.Data.(MirSliceData).Element.String() + "]"
	case MirRef:
		d := t.Data.(MirRefData)
		if d.Mutable {
			return "&mut " + d.Inner.String()
		}
		return "&" + d.Inner.String()
	case MirFn:
		d := t.Data.(MirFunctionData)
		s := "fn("
		for i, p := range d.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") -> " + d.Ret.String()
	default:
		return "?"
	}
}

type MirNamedData struct{ Name string }
type MirStructField struct {
	Name string
	Ty   MirType
}
type MirStructData struct {
	Name   string
	Fields []MirStructField
}
type MirVariant struct {
	Name   string
	Fields []MirType
}
type MirEnumData struct {
	Name     string
	Variants []MirVariant
}
type MirTupleData struct{ Elements []MirType }
type MirArrayData struct {
	Element MirType
	Size    int64
}
type MirSliceData struct{ Element MirType }
type MirRefData struct {
	Mutable bool
	Inner   MirType
}
type MirFunctionData struct {
	Params []MirType
	Ret    MirType
}

// Local is one entry of a MirFunction's local table. Name is empty for
// compiler-introduced temporaries.
type Local struct {
	Name    string
	Ty      MirType
	Mutable bool
}

// PlaceElemKind tags the alternative held by a PlaceElem.
type PlaceElemKind int

const (
	ElemDeref PlaceElemKind = iota
	ElemField
	ElemIndex
)

// PlaceElem is one projection step (spec §3, "PlaceElem").
type PlaceElem struct {
	Kind     PlaceElemKind
	FieldIdx int     // ElemField
	Index    LocalId // ElemIndex
}

// Place names a memory location: a local plus a chain of projections.
type Place struct {
	Local      LocalId
	Projection []PlaceElem
}

func LocalPlace(id LocalId) Place { return Place{Local: id} }

func (p Place) Project(elem PlaceElem) Place {
	proj := make([]PlaceElem, len(p.Projection)+1)
	copy(proj, p.Projection)
	proj[len(p.Projection)] = elem
	return Place{Local: p.Local, Projection: proj}
}

// OperandKind tags the alternative held by an Operand.
type OperandKind int

const (
	OperandCopy OperandKind = iota
	OperandMove
	OperandConstant
)

// ConstKind tags the literal shape a Constant operand carries.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
	ConstUnit
)

// Operand is a value producer: a read of a place (by copy or move) or a
// constant.
type Operand struct {
	Kind     OperandKind
	Place    Place
	ConstKnd ConstKind
	Int      int64
	Float    float64
	Bool     bool
	Str      string
	Ty       MirType
}

func CopyOf(p Place) Operand   { return Operand{Kind: OperandCopy, Place: p} }
func MoveOf(p Place) Operand   { return Operand{Kind: OperandMove, Place: p} }
func ConstInt64(v int64, ty MirType) Operand {
	return Operand{Kind: OperandConstant, ConstKnd: ConstInt, Int: v, Ty: ty}
}
func ConstFloat64(v float64, ty MirType) Operand {
	return Operand{Kind: OperandConstant, ConstKnd: ConstFloat, Float: v, Ty: ty}
}
func ConstBoolVal(v bool, ty MirType) Operand {
	return Operand{Kind: OperandConstant, ConstKnd: ConstBool, Bool: v, Ty: ty}
}
func ConstStr(v string, ty MirType) Operand {
	return Operand{Kind: OperandConstant, ConstKnd: ConstString, Str: v, Ty: ty}
}
func ConstUnitVal(ty MirType) Operand { return Operand{Kind: OperandConstant, ConstKnd: ConstUnit, Ty: ty} }

// RValueKind tags the alternative held by an RValue.
type RValueKind int

const (
	RValueUse RValueKind = iota
	RValueBinaryOp
	RValueUnaryOp
	RValueCall
	RValueRef
	RValueAggregate
)

// AggregateKind tags the shape an Aggregate RValue builds.
type AggregateKind int

const (
	AggregateTuple AggregateKind = iota
	AggregateStruct
	AggregateEnum
	AggregateArray
)

// RValue is a value-producing expression assigned into a Place by a
// Statement.
type RValue struct {
	Kind RValueKind

	// Use
	Operand Operand

	// BinaryOp / UnaryOp
	BinOp BinOpKind
	UnOp  UnOpKind
	Left  Operand
	Right Operand

	// Call
	Func hir.FnId
	Args []Operand

	// Ref
	RefMutable bool
	RefPlace   Place

	// Aggregate
	AggKind    AggregateKind
	VariantIdx int
	ElemTy     MirType
	Operands   []Operand
}

// BinOpKind mirrors hir.BinOp in MIR's own vocabulary so MIR statements
// never carry a hir operator value.
type BinOpKind int

const (
	MirAdd BinOpKind = iota
	MirSub
	MirMul
	MirDiv
	MirRem
	MirEq
	MirNe
	MirLt
	MirLe
	MirGt
	MirGe
	MirAnd
	MirOr
	MirBitAnd
	MirBitOr
	MirBitXor
	MirShl
	MirShr
)

type UnOpKind int

const (
	MirNeg UnOpKind = iota
	MirNot
	MirBitNot
)

// StatementKind tags the alternative held by a Statement.
type StatementKind int

const (
	StmtAssign StatementKind = iota
	StmtStorageLive
	StmtStorageDead
	StmtNop
)

// Statement is one instruction within a basic block.
type Statement struct {
	Kind   StatementKind
	Place  Place
	RValue RValue
	Local  LocalId
}

// TerminatorKind tags the alternative held by a Terminator.
type TerminatorKind int

const (
	TermGoto TerminatorKind = iota
	TermSwitchInt
	TermReturn
	TermCall
	TermUnreachable
)

// Terminator ends a basic block.
type Terminator struct {
	Kind TerminatorKind

	// Goto
	Target BlockId

	// SwitchInt
	Discriminant Operand
	Targets      map[int64]BlockId
	Otherwise    BlockId

	// Return
	Value *Operand

	// Call (terminator form, used when the call itself can diverge)
	Func        hir.FnId
	Args        []Operand
	Destination Place
	CallTarget  BlockId
}

// BlockId names a basic block within one MirFunction.
type BlockId uint32

// BasicBlock is a straight-line sequence of statements ending in exactly
// one terminator (spec §3 invariant 1).
type BasicBlock struct {
	Statements []Statement
	Terminator Terminator
}

// MirFunction is one compiled function body: locals plus a CFG of basic
// blocks. ParamCount locals starting at index 0 are the parameters;
// ReturnLocal is where every `return` and the final trailing expression
// write their value (spec §4.5 "Return convention").
type MirFunction struct {
	Name        string
	FnID        hir.FnId
	Locals      []Local
	ParamCount  int
	ReturnLocal LocalId
	Blocks      []BasicBlock

	// Warnings accumulates non-fatal diagnostics discovered while
	// lowering this function's body — currently only match
	// exhaustiveness witnesses (spec §4.4: "never fatal, always
	// surfaced"). internal/driver turns these into diagnostic.Diagnostic
	// entries once the whole crate has lowered.
	Warnings []MatchWarning
}

// MatchWarning records one non-exhaustive match expression found during
// lowering, along with the witnesses exhaustive.Check produced for it.
type MatchWarning struct {
	Expr    hir.ExprId
	Missing []exhaustive.Witness
}

func (f *MirFunction) NewLocal(l Local) LocalId {
	f.Locals = append(f.Locals, l)
	return LocalId(len(f.Locals) - 1)
}

func (f *MirFunction) NewBlock() BlockId {
	f.Blocks = append(f.Blocks, BasicBlock{})
	return BlockId(len(f.Blocks) - 1)
}

func (f *MirFunction) emit(bb BlockId, s Statement) {
	f.Blocks[bb].Statements = append(f.Blocks[bb].Statements, s)
}

func (f *MirFunction) terminate(bb BlockId, t Terminator) {
	f.Blocks[bb].Terminator = t
}

// Program is the final set of MIR functions handed to a backend.
type Program struct {
	Functions []*MirFunction
}

// ByFnID finds the MirFunction compiled from fnID, searching the final
// (possibly monomorphized) function set. Backends and the reference
// interpreter use this to resolve an RValue/Terminator Call's Func.
func (p *Program) ByFnID(fnID hir.FnId) (*MirFunction, bool) {
	for _, fn := range p.Functions {
		if fn.FnID == fnID {
			return fn, true
		}
	}
	return nil, false
}
