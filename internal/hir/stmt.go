package hir

import (
	"github.com/orizon-lang/orizon/internal/arena"
	"github.com/orizon-lang/orizon/internal/position"
)

// StmtId is a handle into the statement arena.
type StmtId = arena.Index[Stmt]

// StmtKind tags the alternative held by a Stmt's Data field.
type StmtKind int

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtReturn
)

// Stmt is a closed sum over HIR statement nodes.
type Stmt struct {
	Kind StmtKind
	Span position.Span
	Data interface{}
}

// LetStmt binds Pattern to the value of Init, optionally annotated with
// Ty. Bindings are not visible inside Init itself (§4.2).
type LetStmt struct {
	Pattern PatternId
	Ty      *HirTypeId
	Init    ExprId
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr ExprId
}

// ReturnStmt returns Value (or nothing, for a bare `return;`) from the
// enclosing function.
type ReturnStmt struct {
	Value *ExprId
}
