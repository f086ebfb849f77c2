package lowering

import (
	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
)

// lowerBlock lowers a Block CST node into a fresh BlockExpr, opening a
// child scope as §4.2 requires ("visiting a block creates a child
// scope"). The last child is treated as the block's trailing value
// unless it is itself a Let or Return, in which case the block's value
// is Unit.
func (c *Context) lowerBlock(node cstnode.Node, parentScope hir.ScopeId) hir.ExprId {
	scope := c.Program.Scopes.Push(parentScope, hir.ScopeBlock)
	children := node.Children()

	var stmts []hir.StmtId
	var trailing *hir.ExprId

	for i, child := range children {
		isLast := i == len(children)-1
		if isLast && child.Kind() != cstnode.KindLet && child.Kind() != cstnode.KindReturn {
			e := c.lowerExpr(child, scope)
			trailing = &e
			continue
		}
		stmts = append(stmts, c.lowerStmt(child, scope))
	}

	block := hir.Expr{Kind: hir.ExprBlock, Span: span(node), Data: hir.BlockExpr{Stmts: stmts, Trailing: trailing, Scope: scope}}
	return c.Program.Exprs.Alloc(block)
}

func (c *Context) lowerStmt(node cstnode.Node, scope hir.ScopeId) hir.StmtId {
	switch node.Kind() {
	case cstnode.KindLet:
		return c.lowerLet(node, scope)
	case cstnode.KindReturn:
		return c.lowerReturn(node, scope)
	default:
		e := c.lowerExpr(node, scope)
		return c.Program.Stmts.Alloc(hir.Stmt{Kind: hir.StmtExpr, Span: span(node), Data: hir.ExprStmt{Expr: e}})
	}
}

// lowerLet resolves the initializer first, then registers the pattern's
// bindings in the enclosing scope, so a binding is never visible inside
// its own initializer (§4.2).
func (c *Context) lowerLet(node cstnode.Node, scope hir.ScopeId) hir.StmtId {
	patternNode := cstnode.Child(node, 0)
	initNode := cstnode.Child(node, 1)

	init := c.lowerExpr(initNode, scope)

	var tyID *hir.HirTypeId
	if tyNode := cstnode.FirstOfKind(node, cstnode.KindType); tyNode != nil {
		t := c.lowerType(tyNode)
		tyID = &t
	}

	pattern := c.lowerPattern(patternNode, scope)

	return c.Program.Stmts.Alloc(hir.Stmt{
		Kind: hir.StmtLet,
		Span: span(node),
		Data: hir.LetStmt{Pattern: pattern, Ty: tyID, Init: init},
	})
}

func (c *Context) lowerReturn(node cstnode.Node, scope hir.ScopeId) hir.StmtId {
	var value *hir.ExprId
	if len(node.Children()) > 0 {
		e := c.lowerExpr(cstnode.Child(node, 0), scope)
		value = &e
	}
	return c.Program.Stmts.Alloc(hir.Stmt{Kind: hir.StmtReturn, Span: span(node), Data: hir.ReturnStmt{Value: value}})
}
