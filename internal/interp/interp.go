// Package interp implements a direct tree-walking interpreter over a
// final, monomorphized mir.Program — one of the three backend
// consumers spec.md §1/§6 names but leaves outside this pipeline's
// core scope. It exists so the scenario table in spec.md §8 ("2 + 3 *
// 4, interpreter yields 14", "...yields 42") is mechanically checked
// by this repository's own tests rather than asserted against MIR
// shape alone, the same role original_source's rv-mir-lower/src's
// evaluator crate plays for Raven-Rewrite. It never reaches back into
// HIR, the interner, or any pre-normalization type — only MirFunction,
// BasicBlock, Statement, and Terminator.
package interp

import (
	"fmt"

	"github.com/orizon-lang/orizon/internal/mir"
)

// ValueKind tags the alternative held by a Value.
type ValueKind int

const (
	ValInt ValueKind = iota
	ValFloat
	ValBool
	ValString
	ValUnit
	ValAggregate
	ValRef
)

// Value is the interpreter's runtime representation: closed over the
// same shapes MirType describes (scalars, and Aggregate for
// structs/enums/tuples/arrays alike, distinguished only by VariantIdx
// and field count the way MIR's own AggregateKind values are).
type Value struct {
	Kind ValueKind

	Int   int64
	Float float64
	Bool  bool
	Str   string

	VariantIdx int
	Fields     []Value

	Ref *Value
}

func intVal(v int64) Value     { return Value{Kind: ValInt, Int: v} }
func floatVal(v float64) Value { return Value{Kind: ValFloat, Float: v} }
func boolVal(v bool) Value     { return Value{Kind: ValBool, Bool: v} }

// Interp runs functions drawn from Prog, resolving calls through
// Prog.ByFnID the way mono.Run leaves every call site pointing at a
// concrete (never generic) function.
type Interp struct {
	Prog *mir.Program
}

// New creates an Interp over prog, which must already be the final
// output of mono.(*Monomorphizer).Run — internal/driver hands this
// package exactly that program, never the pre-monomorphization one.
func New(prog *mir.Program) *Interp { return &Interp{Prog: prog} }

// CallByName looks up the function named name and runs it with args.
func (in *Interp) CallByName(name string, args ...Value) (Value, error) {
	for _, fn := range in.Prog.Functions {
		if fn.Name == name {
			return in.call(fn, args)
		}
	}

	return Value{}, fmt.Errorf("interp: no function named %q", name)
}

// RunMain calls main() with no arguments and returns its result as an
// int64 — the convenience entrypoint the scenario table (spec §8)
// checks every demo program against.
func (in *Interp) RunMain() (int64, error) {
	v, err := in.CallByName("main")
	if err != nil {
		return 0, err
	}
	if v.Kind != ValInt {
		return 0, fmt.Errorf("interp: main did not return an integer (got kind %d)", v.Kind)
	}

	return v.Int, nil
}

// call runs one MirFunction to completion: locals is sized once from
// fn.Locals and never grows, so every pointer resolvePlace hands out
// for a RValueRef stays valid for the whole call.
func (in *Interp) call(fn *mir.MirFunction, args []Value) (Value, error) {
	locals := make([]Value, len(fn.Locals))
	copy(locals, args)

	bb := mir.BlockId(0)

	for {
		if int(bb) >= len(fn.Blocks) {
			return Value{}, fmt.Errorf("interp: %s: block %d out of range", fn.Name, bb)
		}
		block := fn.Blocks[bb]

		for _, s := range block.Statements {
			if err := in.execStmt(locals, s); err != nil {
				return Value{}, fmt.Errorf("interp: %s: %w", fn.Name, err)
			}
		}

		switch block.Terminator.Kind {
		case mir.TermGoto:
			bb = block.Terminator.Target

		case mir.TermReturn:
			if block.Terminator.Value != nil {
				return in.evalOperand(locals, *block.Terminator.Value), nil
			}
			return Value{Kind: ValUnit}, nil

		case mir.TermSwitchInt:
			key := discriminantInt(in.evalOperand(locals, block.Terminator.Discriminant))
			if target, ok := block.Terminator.Targets[key]; ok {
				bb = target
			} else {
				bb = block.Terminator.Otherwise
			}

		case mir.TermCall:
			callee, ok := in.Prog.ByFnID(block.Terminator.Func)
			if !ok {
				return Value{}, fmt.Errorf("interp: %s: call targets unknown function id %d", fn.Name, block.Terminator.Func)
			}

			argVals := make([]Value, len(block.Terminator.Args))
			for i, a := range block.Terminator.Args {
				argVals[i] = in.evalOperand(locals, a)
			}

			result, err := in.call(callee, argVals)
			if err != nil {
				return Value{}, err
			}

			*in.resolvePlace(locals, block.Terminator.Destination) = result
			bb = block.Terminator.CallTarget

		case mir.TermUnreachable:
			return Value{}, fmt.Errorf("interp: %s: reached an unreachable terminator", fn.Name)

		default:
			return Value{}, fmt.Errorf("interp: %s: unhandled terminator kind %d", fn.Name, block.Terminator.Kind)
		}
	}
}

func (in *Interp) execStmt(locals []Value, s mir.Statement) error {
	if s.Kind != mir.StmtAssign {
		return nil
	}

	v, err := in.evalRValue(locals, s.RValue)
	if err != nil {
		return err
	}

	*in.resolvePlace(locals, s.Place) = v

	return nil
}

func (in *Interp) evalRValue(locals []Value, r mir.RValue) (Value, error) {
	switch r.Kind {
	case mir.RValueUse:
		return in.evalOperand(locals, r.Operand), nil

	case mir.RValueBinaryOp:
		l := in.evalOperand(locals, r.Left)
		rr := in.evalOperand(locals, r.Right)

		return evalBinOp(r.BinOp, l, rr)

	case mir.RValueUnaryOp:
		v := in.evalOperand(locals, r.Left)
		return evalUnOp(r.UnOp, v)

	case mir.RValueCall:
		callee, ok := in.Prog.ByFnID(r.Func)
		if !ok {
			return Value{}, fmt.Errorf("interp: call rvalue targets unknown function id %d", r.Func)
		}

		args := make([]Value, len(r.Args))
		for i, a := range r.Args {
			args[i] = in.evalOperand(locals, a)
		}

		return in.call(callee, args)

	case mir.RValueRef:
		return Value{Kind: ValRef, Ref: in.resolvePlace(locals, r.RefPlace)}, nil

	case mir.RValueAggregate:
		fields := make([]Value, len(r.Operands))
		for i, o := range r.Operands {
			fields[i] = in.evalOperand(locals, o)
		}

		return Value{Kind: ValAggregate, VariantIdx: r.VariantIdx, Fields: fields}, nil

	default:
		return Value{}, fmt.Errorf("interp: unhandled rvalue kind %d", r.Kind)
	}
}

func (in *Interp) evalOperand(locals []Value, o mir.Operand) Value {
	if o.Kind != mir.OperandConstant {
		return *in.resolvePlace(locals, o.Place)
	}

	switch o.ConstKnd {
	case mir.ConstInt:
		return intVal(o.Int)
	case mir.ConstFloat:
		return floatVal(o.Float)
	case mir.ConstBool:
		return boolVal(o.Bool)
	case mir.ConstString:
		return Value{Kind: ValString, Str: o.Str}
	default:
		return Value{Kind: ValUnit}
	}
}

// resolvePlace returns a pointer into locals (or through a Ref chain)
// for p, applying each projection step in order. Every place the
// interpreter sees has already passed mir.Verify, so every local index
// and field index here is in range by construction.
func (in *Interp) resolvePlace(locals []Value, p mir.Place) *Value {
	v := &locals[p.Local]

	for _, elem := range p.Projection {
		switch elem.Kind {
		case mir.ElemDeref:
			v = v.Ref
		case mir.ElemField:
			v = &v.Fields[elem.FieldIdx]
		case mir.ElemIndex:
			idx := locals[elem.Index].Int
			v = &v.Fields[idx]
		}
	}

	return v
}

// discriminantInt extracts the numeric key a SwitchInt terminator
// dispatches on from whatever scalar discriminantOperand produced:
// an enum's tag is already an int (read through the reserved Field{0}
// projection), a bool scrutinee is its own discriminant.
func discriminantInt(v Value) int64 {
	switch v.Kind {
	case ValBool:
		if v.Bool {
			return 1
		}
		return 0
	case ValInt:
		return v.Int
	default:
		return 0
	}
}

func evalBinOp(op mir.BinOpKind, l, r Value) (Value, error) {
	switch l.Kind {
	case ValInt:
		return evalIntBinOp(op, l.Int, r.Int)
	case ValFloat:
		return evalFloatBinOp(op, l.Float, r.Float)
	case ValBool:
		return evalBoolBinOp(op, l.Bool, r.Bool)
	default:
		return Value{}, fmt.Errorf("interp: binary op on unsupported operand kind %d", l.Kind)
	}
}

func evalIntBinOp(op mir.BinOpKind, l, r int64) (Value, error) {
	switch op {
	case mir.MirAdd:
		return intVal(l + r), nil
	case mir.MirSub:
		return intVal(l - r), nil
	case mir.MirMul:
		return intVal(l * r), nil
	case mir.MirDiv:
		if r == 0 {
			return Value{}, fmt.Errorf("interp: division by zero")
		}
		return intVal(l / r), nil
	case mir.MirRem:
		if r == 0 {
			return Value{}, fmt.Errorf("interp: division by zero")
		}
		return intVal(l % r), nil
	case mir.MirEq:
		return boolVal(l == r), nil
	case mir.MirNe:
		return boolVal(l != r), nil
	case mir.MirLt:
		return boolVal(l < r), nil
	case mir.MirLe:
		return boolVal(l <= r), nil
	case mir.MirGt:
		return boolVal(l > r), nil
	case mir.MirGe:
		return boolVal(l >= r), nil
	case mir.MirBitAnd:
		return intVal(l & r), nil
	case mir.MirBitOr:
		return intVal(l | r), nil
	case mir.MirBitXor:
		return intVal(l ^ r), nil
	case mir.MirShl:
		return intVal(l << uint(r)), nil
	case mir.MirShr:
		return intVal(l >> uint(r)), nil
	default:
		return Value{}, fmt.Errorf("interp: unsupported integer binop %d", op)
	}
}

func evalFloatBinOp(op mir.BinOpKind, l, r float64) (Value, error) {
	switch op {
	case mir.MirAdd:
		return floatVal(l + r), nil
	case mir.MirSub:
		return floatVal(l - r), nil
	case mir.MirMul:
		return floatVal(l * r), nil
	case mir.MirDiv:
		return floatVal(l / r), nil
	case mir.MirEq:
		return boolVal(l == r), nil
	case mir.MirNe:
		return boolVal(l != r), nil
	case mir.MirLt:
		return boolVal(l < r), nil
	case mir.MirLe:
		return boolVal(l <= r), nil
	case mir.MirGt:
		return boolVal(l > r), nil
	case mir.MirGe:
		return boolVal(l >= r), nil
	default:
		return Value{}, fmt.Errorf("interp: unsupported float binop %d", op)
	}
}

func evalBoolBinOp(op mir.BinOpKind, l, r bool) (Value, error) {
	switch op {
	case mir.MirAnd:
		return boolVal(l && r), nil
	case mir.MirOr:
		return boolVal(l || r), nil
	case mir.MirEq:
		return boolVal(l == r), nil
	case mir.MirNe:
		return boolVal(l != r), nil
	default:
		return Value{}, fmt.Errorf("interp: unsupported bool binop %d", op)
	}
}

func evalUnOp(op mir.UnOpKind, v Value) (Value, error) {
	switch op {
	case mir.MirNeg:
		if v.Kind == ValFloat {
			return floatVal(-v.Float), nil
		}
		return intVal(-v.Int), nil
	case mir.MirNot:
		return boolVal(!v.Bool), nil
	case mir.MirBitNot:
		return intVal(^v.Int), nil
	default:
		return Value{}, fmt.Errorf("interp: unsupported unop %d", op)
	}
}
