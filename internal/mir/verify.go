package mir

import (
	"fmt"

	"github.com/orizon-lang/orizon/internal/hir"
)

// VerifyError reports one violation of the invariants spec §3 requires
// of every MirFunction before a backend may consume it.
type VerifyError struct {
	Func string
	Msg  string
}

func (e *VerifyError) Error() string { return fmt.Sprintf("mir: %s: %s", e.Func, e.Msg) }

// Verify checks prog against part of the MIR-entry invariants (spec §3):
// every local an Assign's place or operands name is declared, every Call
// target (statement or terminator form) is a function in known when
// known is non-nil, and every Goto, SwitchInt and Call terminator names
// in-range blocks (a Call also a declared destination local). It does
// not inspect the MirTypes of locals or how blocks are terminated.
func Verify(prog *Program, known map[hir.FnId]bool) []error {
	var errs []error
	for _, fn := range prog.Functions {
		errs = append(errs, verifyFunction(fn, known)...)
	}
	return errs
}

func verifyFunction(fn *MirFunction, known map[hir.FnId]bool) []error {
	var errs []error
	name := fn.Name

	for _, bb := range fn.Blocks {
		for _, s := range bb.Statements {
			if s.Kind == StmtAssign {
				errs = append(errs, verifyPlace(name, s.Place, len(fn.Locals))...)
				errs = append(errs, verifyRValue(name, s.RValue, len(fn.Locals), known)...)
			}
		}
		errs = append(errs, verifyTerminator(name, bb.Terminator, len(fn.Blocks), len(fn.Locals), known)...)
	}
	return errs
}

func verifyPlace(fnName string, p Place, numLocals int) []error {
	if int(p.Local) >= numLocals {
		return []error{&VerifyError{Func: fnName, Msg: fmt.Sprintf("place refers to undeclared local _%d", p.Local)}}
	}
	return nil
}

func verifyRValue(fnName string, r RValue, numLocals int, known map[hir.FnId]bool) []error {
	var errs []error
	switch r.Kind {
	case RValueUse:
		if r.Operand.Kind != OperandConstant {
			errs = append(errs, verifyPlace(fnName, r.Operand.Place, numLocals)...)
		}
	case RValueBinaryOp:
		errs = append(errs, verifyOperand(fnName, r.Left, numLocals)...)
		errs = append(errs, verifyOperand(fnName, r.Right, numLocals)...)
	case RValueUnaryOp:
		errs = append(errs, verifyOperand(fnName, r.Left, numLocals)...)
	case RValueCall:
		if known != nil && !known[r.Func] {
			errs = append(errs, &VerifyError{Func: fnName, Msg: "call rvalue targets an unknown function"})
		}
	case RValueRef:
		errs = append(errs, verifyPlace(fnName, r.RefPlace, numLocals)...)
	case RValueAggregate:
		for _, o := range r.Operands {
			errs = append(errs, verifyOperand(fnName, o, numLocals)...)
		}
	}
	return errs
}

func verifyOperand(fnName string, o Operand, numLocals int) []error {
	if o.Kind == OperandConstant {
		return nil
	}
	return verifyPlace(fnName, o.Place, numLocals)
}

func verifyTerminator(fnName string, t Terminator, numBlocks, numLocals int, known map[hir.FnId]bool) []error {
	var errs []error
	switch t.Kind {
	case TermGoto:
		if int(t.Target) >= numBlocks {
			errs = append(errs, &VerifyError{Func: fnName, Msg: fmt.Sprintf("goto targets out-of-range bb%d", t.Target)})
		}
	case TermSwitchInt:
		if int(t.Otherwise) >= numBlocks {
			errs = append(errs, &VerifyError{Func: fnName, Msg: "switchInt otherwise target out of range"})
		}
		for _, bb := range t.Targets {
			if int(bb) >= numBlocks {
				errs = append(errs, &VerifyError{Func: fnName, Msg: fmt.Sprintf("switchInt targets out-of-range bb%d", bb)})
			}
		}
	case TermCall:
		if int(t.CallTarget) >= numBlocks {
			errs = append(errs, &VerifyError{Func: fnName, Msg: "call target block out of range"})
		}
		errs = append(errs, verifyPlace(fnName, t.Destination, numLocals)...)
		if known != nil && !known[t.Func] {
			errs = append(errs, &VerifyError{Func: fnName, Msg: "call terminator targets an unknown function"})
		}
	}
	return errs
}
