package hir

// SubExprs returns the direct child expression handles of the expression
// at id, in evaluation order. Grounded on Raven-Rewrite's
// `rv-hir/src/visitor.rs` generic expression walk; used uniformly by the
// pretty-printer, exhaustiveness checking's scrutinee walk, and closure
// capture analysis so all three share one notion of "the subexpressions
// of this node".
func (p *Program) SubExprs(id ExprId) []ExprId {
	e := p.Exprs.Get(id)
	switch e.Kind {
	case ExprLiteral, ExprVariable:
		return nil
	case ExprCall:
		d := e.Data.(CallExpr)
		return append([]ExprId{d.Callee}, d.Args...)
	case ExprMethodCall:
		d := e.Data.(MethodCallExpr)
		return append([]ExprId{d.Receiver}, d.Args...)
	case ExprBinaryOp:
		d := e.Data.(BinaryOpExpr)
		return []ExprId{d.Left, d.Right}
	case ExprUnaryOp:
		d := e.Data.(UnaryOpExpr)
		return []ExprId{d.Operand}
	case ExprIf:
		d := e.Data.(IfExpr)
		out := []ExprId{d.Cond, d.Then}
		if d.Else != nil {
			out = append(out, *d.Else)
		}
		return out
	case ExprBlock:
		d := e.Data.(BlockExpr)
		var out []ExprId
		for _, sid := range d.Stmts {
			out = append(out, p.subExprsOfStmt(sid)...)
		}
		if d.Trailing != nil {
			out = append(out, *d.Trailing)
		}
		return out
	case ExprMatch:
		d := e.Data.(MatchExpr)
		out := []ExprId{d.Scrutinee}
		for _, arm := range d.Arms {
			if arm.Guard != nil {
				out = append(out, *arm.Guard)
			}
			out = append(out, arm.Body)
		}
		return out
	case ExprField:
		d := e.Data.(FieldExpr)
		return []ExprId{d.Base}
	case ExprStructConstruct:
		d := e.Data.(StructConstructExpr)
		var out []ExprId
		for _, f := range d.Fields {
			out = append(out, f.Value)
		}
		return out
	case ExprEnumVariant:
		d := e.Data.(EnumVariantExpr)
		return d.Args
	case ExprClosure:
		d := e.Data.(ClosureExpr)
		return []ExprId{d.Body}
	default:
		return nil
	}
}

func (p *Program) subExprsOfStmt(id StmtId) []ExprId {
	s := p.Stmts.Get(id)
	switch s.Kind {
	case StmtLet:
		d := s.Data.(LetStmt)
		return []ExprId{d.Init}
	case StmtExpr:
		d := s.Data.(ExprStmt)
		return []ExprId{d.Expr}
	case StmtReturn:
		d := s.Data.(ReturnStmt)
		if d.Value != nil {
			return []ExprId{*d.Value}
		}
		return nil
	default:
		return nil
	}
}

// WalkExprs visits id and every expression transitively reachable from
// it in pre-order, calling visit on each. Traversal stops early if visit
// returns false.
func (p *Program) WalkExprs(id ExprId, visit func(ExprId) bool) {
	if !visit(id) {
		return
	}
	for _, child := range p.SubExprs(id) {
		p.WalkExprs(child, visit)
	}
}
