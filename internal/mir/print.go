package mir

import (
	"fmt"
	"strings"
)

// String renders f in a readable, rustc-MIR-flavored textual form,
// grounded on rv-mir's own pretty-printer (spec §12 supplement): one
// line per statement/terminator, locals named `_N` the way MIR dumps
// conventionally do, falling back to the source name in a comment when
// one is known.
func (f *MirFunction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s(", f.Name)
	for i := 0; i < f.ParamCount; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "_%d: %s", i, f.Locals[i].Ty.String())
	}
	fmt.Fprintf(&sb, ") -> %s {\n", f.Locals[f.ReturnLocal].Ty.String())

	for i, l := range f.Locals {
		if i < f.ParamCount {
			continue
		}
		name := ""
		if l.Name != "" {
			name = " // " + l.Name
		}
		fmt.Fprintf(&sb, "    let %s_%d: %s;%s\n", mutPrefix(l.Mutable), i, l.Ty.String(), name)
	}

	for bi, bb := range f.Blocks {
		fmt.Fprintf(&sb, "    bb%d: {\n", bi)
		for _, s := range bb.Statements {
			fmt.Fprintf(&sb, "        %s\n", s.String())
		}
		fmt.Fprintf(&sb, "        %s\n", bb.Terminator.String())
		sb.WriteString("    }\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func mutPrefix(mutable bool) string {
	if mutable {
		return "mut "
	}
	return ""
}

func (p Place) String() string {
	s := fmt.Sprintf("_%d", p.Local)
	for _, e := range p.Projection {
		switch e.Kind {
		case ElemDeref:
			s = "(*" + s + ")"
		case ElemField:
			s = fmt.Sprintf("%s.%d", s, e.FieldIdx)
		case ElemIndex:
			s = fmt.Sprintf("%s[_%d]", s, e.Index)
		}
	}
	return s
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandCopy:
		return o.Place.String()
	case OperandMove:
		return "move " + o.Place.String()
	case OperandConstant:
		switch o.ConstKnd {
		case ConstInt:
			return fmt.Sprintf("%d", o.Int)
		case ConstFloat:
			return fmt.Sprintf("%g", o.Float)
		case ConstBool:
			return fmt.Sprintf("%t", o.Bool)
		case ConstString:
			return fmt.Sprintf("%q", o.Str)
		default:
			return "()"
		}
	default:
		return "<?>"
	}
}

func (s Statement) String() string {
	switch s.Kind {
	case StmtAssign:
		return fmt.Sprintf("%s = %s;", s.Place.String(), s.RValue.String())
	case StmtStorageLive:
		return fmt.Sprintf("StorageLive(_%d);", s.Local)
	case StmtStorageDead:
		return fmt.Sprintf("StorageDead(_%d);", s.Local)
	default:
		return "nop;"
	}
}

func (r RValue) String() string {
	switch r.Kind {
	case RValueUse:
		return r.Operand.String()
	case RValueBinaryOp:
		return fmt.Sprintf("%s(%s, %s)", binOpName(r.BinOp), r.Left.String(), r.Right.String())
	case RValueUnaryOp:
		return fmt.Sprintf("%s(%s)", unOpName(r.UnOp), r.Left.String())
	case RValueCall:
		return fmt.Sprintf("fn%d(...)", r.Func)
	case RValueRef:
		if r.RefMutable {
			return "&mut " + r.RefPlace.String()
		}
		return "&" + r.RefPlace.String()
	case RValueAggregate:
		parts := make([]string, len(r.Operands))
		for i, o := range r.Operands {
			parts[i] = o.String()
		}
		return fmt.Sprintf("%s(%s)", aggKindName(r.AggKind), strings.Join(parts, ", "))
	default:
		return "<?>"
	}
}

func (t Terminator) String() string {
	switch t.Kind {
	case TermGoto:
		return fmt.Sprintf("goto -> bb%d;", t.Target)
	case TermSwitchInt:
		parts := make([]string, 0, len(t.Targets))
		for k, v := range t.Targets {
			parts = append(parts, fmt.Sprintf("%d: bb%d", k, v))
		}
		return fmt.Sprintf("switchInt(%s) -> [%s, otherwise: bb%d];", t.Discriminant.String(), strings.Join(parts, ", "), t.Otherwise)
	case TermReturn:
		if t.Value != nil {
			return fmt.Sprintf("return %s;", t.Value.String())
		}
		return "return;"
	case TermCall:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s = fn%d(%s) -> bb%d;", t.Destination.String(), t.Func, strings.Join(parts, ", "), t.CallTarget)
	case TermUnreachable:
		return "unreachable;"
	default:
		return "<?>;"
	}
}

func binOpName(op BinOpKind) string {
	names := [...]string{"Add", "Sub", "Mul", "Div", "Rem", "Eq", "Ne", "Lt", "Le", "Gt", "Ge", "And", "Or", "BitAnd", "BitOr", "BitXor", "Shl", "Shr"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func unOpName(op UnOpKind) string {
	names := [...]string{"Neg", "Not", "BitNot"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func aggKindName(k AggregateKind) string {
	switch k {
	case AggregateTuple:
		return "Tuple"
	case AggregateStruct:
		return "Struct"
	case AggregateEnum:
		return "Enum"
	case AggregateArray:
		return "Array"
	default:
		return "?"
	}
}
