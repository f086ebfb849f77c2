// Package prettyprint implements the diagnostics / pretty-print surface
// spec §4.10 names: each IR level owns a printer that walks its arenas
// and emits a human-readable, context-aware form, resolving generics to
// their textual names when a surrounding context (a Program's symbol
// table) provides the mapping. Grounded on Raven-Rewrite's
// `language/hir/src/pretty_print.rs` and `language/mir/src/pretty_print.rs`
// (SPEC_FULL.md §12) for the shape of a two-level (HIR + MIR) printer,
// and on internal/hir's own SubExprs/visitor convention for walking a
// program uniformly. These services are consumed by tests, by
// cmd/orizonc's --emit-hir/--emit-mir flags, and by cmd/orizon-repl's
// stepper; the compiler pipeline itself never reads them (spec §4.10).
package prettyprint

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
)

// HIR renders the body of fn as an indented s-expression-like form,
// resolving every interned Symbol back to its source text through prog's
// interner. Unlike the compiler pipeline's own traversal helpers, this
// walk is read-only and never mutates prog.
func HIR(prog *hir.Program, fn hir.FnId) string {
	f := prog.Functions.Get(fn)

	var b strings.Builder

	fmt.Fprintf(&b, "fn %s(", sym(prog, f.Name))

	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s: %s", sym(prog, p.Name), hirType(prog, p.Ty))
	}

	fmt.Fprintf(&b, ") -> %s ", hirType(prog, f.ReturnTy))
	writeExpr(&b, prog, f.Body, 0)
	b.WriteByte('\n')

	return b.String()
}

func sym(prog *hir.Program, s interner.Symbol) string { return prog.Symbols.Lookup(s) }

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func hirType(prog *hir.Program, id hir.HirTypeId) string {
	t := prog.Types.Get(id)

	switch t.Kind {
	case hir.HirTypeNamed:
		d := t.Data.(hir.NamedType)

		name := sym(prog, d.Name)
		if len(d.Args) == 0 {
			return name
		}

		parts := make([]string, len(d.Args))
		for i, a := range d.Args {
			parts[i] = hirType(prog, a)
		}

		return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
	case hir.HirTypeGeneric:
		return sym(prog, t.Data.(hir.GenericType).Name)
	case hir.HirTypeFunction:
		d := t.Data.(hir.FunctionType)

		parts := make([]string, len(d.Params))
		for i, p := range d.Params {
			parts[i] = hirType(prog, p)
		}

		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), hirType(prog, d.Ret))
	case hir.HirTypeTuple:
		d := t.Data.(hir.TupleType)

		parts := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			parts[i] = hirType(prog, e)
		}

		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case hir.HirTypeReference:
		d := t.Data.(hir.ReferenceType)
		if d.Mutable {
			return "&mut " + hirType(prog, d.Inner)
		}

		return "&" + hirType(prog, d.Inner)
	case hir.HirTypeQualifiedPath:
		d := t.Data.(hir.QualifiedPathType)
		return fmt.Sprintf("%s::%s", hirType(prog, d.Base), sym(prog, d.AssocType))
	case hir.HirTypeArray:
		d := t.Data.(hir.ArrayType)

		var b strings.Builder

		writeExpr(&b, prog, d.Size, 0)

		return fmt.Sprintf("[%s; %s]", hirType(prog, d.Element), strings.TrimSpace(b.String()))
	default:
		return "<unknown>"
	}
}

func writeExpr(b *strings.Builder, prog *hir.Program, id hir.ExprId, depth int) {
	e := prog.Exprs.Get(id)

	switch e.Kind {
	case hir.ExprLiteral:
		writeLiteral(b, e.Data.(hir.LiteralExpr).Value)
	case hir.ExprVariable:
		d := e.Data.(hir.VariableExpr)

		b.WriteString(sym(prog, d.Name))

		if d.Def != nil {
			fmt.Fprintf(b, "#%s", defIdString(prog, *d.Def))
		}
	case hir.ExprCall:
		d := e.Data.(hir.CallExpr)
		writeExpr(b, prog, d.Callee, depth)
		b.WriteByte('(')

		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			writeExpr(b, prog, a, depth)
		}

		b.WriteByte(')')
	case hir.ExprMethodCall:
		d := e.Data.(hir.MethodCallExpr)
		writeExpr(b, prog, d.Receiver, depth)
		fmt.Fprintf(b, ".%s(", sym(prog, d.Method))

		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			writeExpr(b, prog, a, depth)
		}

		b.WriteByte(')')
	case hir.ExprBinaryOp:
		d := e.Data.(hir.BinaryOpExpr)
		b.WriteByte('(')
		writeExpr(b, prog, d.Left, depth)
		fmt.Fprintf(b, " %s ", binOpSym(d.Op))
		writeExpr(b, prog, d.Right, depth)
		b.WriteByte(')')
	case hir.ExprUnaryOp:
		d := e.Data.(hir.UnaryOpExpr)
		b.WriteString(unOpSym(d.Op))
		writeExpr(b, prog, d.Operand, depth)
	case hir.ExprIf:
		d := e.Data.(hir.IfExpr)
		b.WriteString("if ")
		writeExpr(b, prog, d.Cond, depth)
		b.WriteByte(' ')
		writeExpr(b, prog, d.Then, depth)

		if d.Else != nil {
			b.WriteString(" else ")
			writeExpr(b, prog, *d.Else, depth)
		}
	case hir.ExprBlock:
		d := e.Data.(hir.BlockExpr)
		b.WriteString("{\n")

		for _, sid := range d.Stmts {
			indent(b, depth+1)
			writeStmt(b, prog, sid, depth+1)
			b.WriteByte('\n')
		}

		if d.Trailing != nil {
			indent(b, depth+1)
			writeExpr(b, prog, *d.Trailing, depth+1)
			b.WriteByte('\n')
		}

		indent(b, depth)
		b.WriteByte('}')
	case hir.ExprMatch:
		d := e.Data.(hir.MatchExpr)
		b.WriteString("match ")
		writeExpr(b, prog, d.Scrutinee, depth)
		b.WriteString(" {\n")

		for _, arm := range d.Arms {
			indent(b, depth+1)
			writePattern(b, prog, arm.Pattern)

			if arm.Guard != nil {
				b.WriteString(" if ")
				writeExpr(b, prog, *arm.Guard, depth+1)
			}

			b.WriteString(" => ")
			writeExpr(b, prog, arm.Body, depth+1)
			b.WriteString(",\n")
		}

		indent(b, depth)
		b.WriteByte('}')
	case hir.ExprField:
		d := e.Data.(hir.FieldExpr)
		writeExpr(b, prog, d.Base, depth)
		fmt.Fprintf(b, ".%s", sym(prog, d.Field))
	case hir.ExprStructConstruct:
		d := e.Data.(hir.StructConstructExpr)
		fmt.Fprintf(b, "%s { ", sym(prog, d.TypeName))

		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(b, "%s: ", sym(prog, f.Name))
			writeExpr(b, prog, f.Value, depth)
		}

		b.WriteString(" }")
	case hir.ExprEnumVariant:
		d := e.Data.(hir.EnumVariantExpr)
		fmt.Fprintf(b, "%s::%s", sym(prog, d.EnumName), sym(prog, d.Variant))

		if len(d.Args) > 0 {
			b.WriteByte('(')

			for i, a := range d.Args {
				if i > 0 {
					b.WriteString(", ")
				}

				writeExpr(b, prog, a, depth)
			}

			b.WriteByte(')')
		}
	case hir.ExprClosure:
		d := e.Data.(hir.ClosureExpr)
		b.WriteString("|")

		for i, p := range d.Params {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(sym(prog, p.Name))
		}

		b.WriteString("| ")
		writeExpr(b, prog, d.Body, depth)

		if len(d.Captures) > 0 {
			names := make([]string, len(d.Captures))
			for i, c := range d.Captures {
				names[i] = sym(prog, c)
			}

			fmt.Fprintf(b, " /* captures: %s */", strings.Join(names, ", "))
		}
	default:
		b.WriteString("<?>")
	}
}

func writeLiteral(b *strings.Builder, v hir.LiteralValue) {
	switch v.Kind {
	case hir.LitInt:
		fmt.Fprintf(b, "%d", v.Int)
	case hir.LitFloat:
		fmt.Fprintf(b, "%g", v.Float)
	case hir.LitBool:
		fmt.Fprintf(b, "%t", v.Bool)
	case hir.LitString:
		fmt.Fprintf(b, "%q", v.Str)
	default:
		b.WriteString("()")
	}
}

func writeStmt(b *strings.Builder, prog *hir.Program, id hir.StmtId, depth int) {
	s := prog.Stmts.Get(id)

	switch s.Kind {
	case hir.StmtLet:
		d := s.Data.(hir.LetStmt)
		b.WriteString("let ")
		writePattern(b, prog, d.Pattern)
		b.WriteString(" = ")
		writeExpr(b, prog, d.Init, depth)
		b.WriteByte(';')
	case hir.StmtExpr:
		writeExpr(b, prog, s.Data.(hir.ExprStmt).Expr, depth)
		b.WriteByte(';')
	case hir.StmtReturn:
		d := s.Data.(hir.ReturnStmt)
		b.WriteString("return")

		if d.Value != nil {
			b.WriteByte(' ')
			writeExpr(b, prog, *d.Value, depth)
		}

		b.WriteByte(';')
	}
}

func writePattern(b *strings.Builder, prog *hir.Program, id hir.PatternId) {
	p := prog.Patterns.Get(id)

	switch p.Kind {
	case hir.PatternWildcard:
		b.WriteByte('_')
	case hir.PatternBinding:
		d := p.Data.(hir.BindingPattern)

		if d.Mutable {
			b.WriteString("mut ")
		}

		b.WriteString(sym(prog, d.Name))

		if d.SubPattern != nil {
			b.WriteString(" @ ")
			writePattern(b, prog, *d.SubPattern)
		}
	case hir.PatternLiteral:
		writeLiteral(b, p.Data.(hir.LiteralPattern).Value)
	case hir.PatternTuple:
		d := p.Data.(hir.TuplePattern)
		b.WriteByte('(')

		for i, sub := range d.Patterns {
			if i > 0 {
				b.WriteString(", ")
			}

			writePattern(b, prog, sub)
		}

		b.WriteByte(')')
	case hir.PatternStruct:
		d := p.Data.(hir.StructPattern)
		fmt.Fprintf(b, "%s { ", sym(prog, d.TypeName))

		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(b, "%s: ", sym(prog, f.Name))
			writePattern(b, prog, f.Pattern)
		}

		b.WriteString(" }")
	case hir.PatternEnum:
		d := p.Data.(hir.EnumPattern)
		fmt.Fprintf(b, "%s::%s", sym(prog, d.EnumName), sym(prog, d.Variant))

		if len(d.SubPatterns) > 0 {
			b.WriteByte('(')

			for i, sub := range d.SubPatterns {
				if i > 0 {
					b.WriteString(", ")
				}

				writePattern(b, prog, sub)
			}

			b.WriteByte(')')
		}
	case hir.PatternOr:
		d := p.Data.(hir.OrPattern)

		for i, alt := range d.Patterns {
			if i > 0 {
				b.WriteString(" | ")
			}

			writePattern(b, prog, alt)
		}
	case hir.PatternRange:
		d := p.Data.(hir.RangePattern)
		writeLiteral(b, d.Start)

		if d.Inclusive {
			b.WriteString("..=")
		} else {
			b.WriteString("..")
		}

		writeLiteral(b, d.End)
	}
}

func binOpSym(op hir.BinOp) string {
	switch op {
	case hir.BinAdd:
		return "+"
	case hir.BinSub:
		return "-"
	case hir.BinMul:
		return "*"
	case hir.BinDiv:
		return "/"
	case hir.BinRem:
		return "%"
	case hir.BinEq:
		return "=="
	case hir.BinNe:
		return "!="
	case hir.BinLt:
		return "<"
	case hir.BinLe:
		return "<="
	case hir.BinGt:
		return ">"
	case hir.BinGe:
		return ">="
	case hir.BinAnd:
		return "&&"
	case hir.BinOr:
		return "||"
	case hir.BinBitAnd:
		return "&"
	case hir.BinBitOr:
		return "|"
	case hir.BinBitXor:
		return "^"
	case hir.BinShl:
		return "<<"
	case hir.BinShr:
		return ">>"
	default:
		return "?"
	}
}

func unOpSym(op hir.UnOp) string {
	switch op {
	case hir.UnNeg:
		return "-"
	case hir.UnNot:
		return "!"
	case hir.UnBitNot:
		return "~"
	default:
		return "?"
	}
}

func defIdString(prog *hir.Program, d hir.DefId) string {
	switch d.Kind {
	case hir.DefFunction:
		return fmt.Sprintf("fn:%d", uint32(d.Fn))
	case hir.DefType:
		return fmt.Sprintf("ty:%d", uint32(d.Type))
	case hir.DefTrait:
		return fmt.Sprintf("trait:%d", uint32(d.Trait))
	case hir.DefImpl:
		return fmt.Sprintf("impl:%d", uint32(d.Impl))
	case hir.DefModule:
		return fmt.Sprintf("mod:%d", uint32(d.Mod))
	case hir.DefLocal:
		return fmt.Sprintf("local:%d", d.LocalLocal)
	default:
		return "none"
	}
}
