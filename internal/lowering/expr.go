package lowering

import (
	"strings"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
)

// lowerExpr lowers any expression-shaped CST node. Unrecognized kinds
// degrade to Literal(Unit) per §4.1's "fail behavior" rather than
// aborting lowering.
func (c *Context) lowerExpr(node cstnode.Node, scope hir.ScopeId) hir.ExprId {
	if node == nil {
		return c.unitLiteral(node)
	}

	switch node.Kind() {
	case cstnode.KindLiteral:
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprLiteral, Span: span(node), Data: hir.LiteralExpr{Value: parseLiteral(node.Text())}})

	case cstnode.KindIdentifier:
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprVariable, Span: span(node), Data: hir.VariableExpr{Name: c.sym(node.Text())}})

	case cstnode.KindBlock:
		return c.lowerBlock(node, scope)

	case cstnode.KindCall:
		children := node.Children()
		if len(children) == 0 {
			c.errorf("lowering: call with no callee")
			return c.unitLiteral(node)
		}
		callee := c.lowerExpr(children[0], scope)
		var args []hir.ExprId
		for _, a := range children[1:] {
			args = append(args, c.lowerExpr(a, scope))
		}
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprCall, Span: span(node), Data: hir.CallExpr{Callee: callee, Args: args}})

	case cstnode.KindMethodCall:
		children := node.Children()
		if len(children) == 0 {
			c.errorf("lowering: method call with no receiver")
			return c.unitLiteral(node)
		}
		recv := c.lowerExpr(children[0], scope)
		var args []hir.ExprId
		for _, a := range children[1:] {
			args = append(args, c.lowerExpr(a, scope))
		}
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprMethodCall, Span: span(node), Data: hir.MethodCallExpr{Receiver: recv, Method: c.sym(node.Text()), Args: args}})

	case cstnode.KindBinaryOp:
		op, ok := binOpFromText(node.Text())
		if !ok || len(node.Children()) != 2 {
			c.errorf("lowering: malformed binary op %q", node.Text())
			return c.unitLiteral(node)
		}
		left := c.lowerExpr(cstnode.Child(node, 0), scope)
		right := c.lowerExpr(cstnode.Child(node, 1), scope)
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprBinaryOp, Span: span(node), Data: hir.BinaryOpExpr{Op: op, Left: left, Right: right}})

	case cstnode.KindUnaryOp:
		op, ok := unOpFromText(node.Text())
		if !ok || len(node.Children()) != 1 {
			c.errorf("lowering: malformed unary op %q", node.Text())
			return c.unitLiteral(node)
		}
		operand := c.lowerExpr(cstnode.Child(node, 0), scope)
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprUnaryOp, Span: span(node), Data: hir.UnaryOpExpr{Op: op, Operand: operand}})

	case cstnode.KindIf:
		children := node.Children()
		if len(children) < 2 {
			c.errorf("lowering: malformed if")
			return c.unitLiteral(node)
		}
		cond := c.lowerExpr(children[0], scope)
		then := c.lowerExpr(children[1], scope)
		var elseExpr *hir.ExprId
		if len(children) > 2 {
			e := c.lowerExpr(children[2], scope)
			elseExpr = &e
		}
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprIf, Span: span(node), Data: hir.IfExpr{Cond: cond, Then: then, Else: elseExpr}})

	case cstnode.KindMatch:
		children := node.Children()
		if len(children) == 0 {
			c.errorf("lowering: match with no scrutinee")
			return c.unitLiteral(node)
		}
		scrutinee := c.lowerExpr(children[0], scope)
		var arms []hir.MatchArm
		for _, armNode := range children[1:] {
			arms = append(arms, c.lowerMatchArm(armNode, scope))
		}
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprMatch, Span: span(node), Data: hir.MatchExpr{Scrutinee: scrutinee, Arms: arms}})

	case cstnode.KindField:
		if len(node.Children()) != 1 {
			c.errorf("lowering: malformed field access")
			return c.unitLiteral(node)
		}
		base := c.lowerExpr(cstnode.Child(node, 0), scope)
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprField, Span: span(node), Data: hir.FieldExpr{Base: base, Field: c.sym(node.Text())}})

	case cstnode.KindStructConstruct:
		name := c.sym(node.Text())
		var def *hir.DefId
		if tid, ok := c.Program.TypeByName[name]; ok {
			d := hir.TypeDefRef(tid)
			def = &d
		}
		var fields []hir.FieldInit
		for _, f := range node.Children() {
			if len(f.Children()) != 1 {
				continue
			}
			fields = append(fields, hir.FieldInit{Name: c.sym(f.Text()), Value: c.lowerExpr(cstnode.Child(f, 0), scope)})
		}
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprStructConstruct, Span: span(node), Data: hir.StructConstructExpr{TypeName: name, Def: def, Fields: fields}})

	case cstnode.KindEnumVariant:
		enumName, variantName := splitEnumPath(node.Text())
		enumSym := c.sym(enumName)
		variantSym := c.sym(variantName)
		var def *hir.DefId
		if tid, ok := c.Program.TypeByName[enumSym]; ok {
			d := hir.TypeDefRef(tid)
			def = &d
		}
		var args []hir.ExprId
		for _, a := range node.Children() {
			args = append(args, c.lowerExpr(a, scope))
		}
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprEnumVariant, Span: span(node), Data: hir.EnumVariantExpr{EnumName: enumSym, Variant: variantSym, Def: def, Args: args}})

	case cstnode.KindClosure:
		paramsNode := cstnode.FirstOfKind(node, cstnode.KindParameters)
		var params []hir.Param
		closureScope := c.Program.Scopes.Push(scope, hir.ScopeClosure)
		if paramsNode != nil {
			for _, p := range paramsNode.Children() {
				param := c.lowerParam(p)
				def := hir.LocalDef(c.currentFn, c.allocLocal())
				param.Def = &def
				params = append(params, param)
				c.Program.Scopes.Define(closureScope, param.Name, hir.ScopeEntry{Def: def})
			}
		}
		bodyNode := lastChild(node)
		body := c.lowerExpr(bodyNode, closureScope)
		return c.Program.Exprs.Alloc(hir.Expr{Kind: hir.ExprClosure, Span: span(node), Data: hir.ClosureExpr{Params: params, Body: body, Scope: closureScope}})

	default:
		return c.unitLiteral(node)
	}
}

func (c *Context) lowerMatchArm(node cstnode.Node, scope hir.ScopeId) hir.MatchArm {
	armScope := c.Program.Scopes.Push(scope, hir.ScopeMatchArm)
	children := node.Children()
	if len(children) == 0 {
		c.errorf("lowering: empty match arm")
		return hir.MatchArm{}
	}
	pattern := c.lowerPattern(children[0], armScope)

	switch len(children) {
	case 2:
		body := c.lowerExpr(children[1], armScope)
		return hir.MatchArm{Pattern: pattern, Body: body, Scope: armScope}
	case 3:
		guard := c.lowerExpr(children[1], armScope)
		body := c.lowerExpr(children[2], armScope)
		return hir.MatchArm{Pattern: pattern, Guard: &guard, Body: body, Scope: armScope}
	default:
		c.errorf("lowering: malformed match arm")
		return hir.MatchArm{Pattern: pattern, Scope: armScope}
	}
}

func (c *Context) unitLiteral(node cstnode.Node) hir.ExprId {
	e := hir.Expr{Kind: hir.ExprLiteral, Data: hir.LiteralExpr{Value: hir.LiteralValue{Kind: hir.LitUnit}}}
	if node != nil {
		e.Span = span(node)
	}
	return c.Program.Exprs.Alloc(e)
}

func lastChild(node cstnode.Node) cstnode.Node {
	children := node.Children()
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

func splitEnumPath(text string) (enumName, variant string) {
	parts := strings.SplitN(text, "::", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", text
}
