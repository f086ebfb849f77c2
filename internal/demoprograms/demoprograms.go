// Package demoprograms hand-builds cstnode.Node trees for the six
// scenarios spec.md §8 names. A real parser is out of this spec's core scope (spec.md §1),
// so every tree here is constructed directly rather than parsed from
// source text — the same approach internal/lowering's own tests take
// (see internal/lowering/lowering_test.go's lit/ident/binOp helpers,
// generalized here into a full gallery consumed by cmd/orizon-repl's
// stepper and by internal/driver's scenario tests).
package demoprograms

import (
	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/position"
)

func sp() position.Span { return position.Span{} }

func lit(text string) cstnode.Node   { return cstnode.NewTree(cstnode.KindLiteral, text, sp()) }
func ident(text string) cstnode.Node { return cstnode.NewTree(cstnode.KindIdentifier, text, sp()) }

func binOp(op string, l, r cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindBinaryOp, op, sp(), l, r)
}

func params(ps ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindParameters, "", sp(), ps...)
}

func param(name string, ty cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindParameter, name, sp(), ty)
}

func selfParam(mutable bool) cstnode.Node {
	text := "&self"
	if mutable {
		text = "&mut self"
	}
	return cstnode.NewTree(cstnode.KindParameter, text, sp())
}

func ty(name string, args ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindType, name, sp(), args...)
}

func block(children ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindBlock, "", sp(), children...)
}

func fn(name string, ps cstnode.Node, ret cstnode.Node, body cstnode.Node, generics ...string) cstnode.Node {
	children := []cstnode.Node{ps, ret, body}
	if len(generics) > 0 {
		var gps []cstnode.Node
		for _, g := range generics {
			gps = append(gps, ident(g))
		}
		children = append(children, cstnode.NewTree(cstnode.KindGenericParams, "", sp(), gps...))
	}
	return cstnode.NewTree(cstnode.KindFunction, name, sp(), children...)
}

func call(callee cstnode.Node, args ...cstnode.Node) cstnode.Node {
	children := append([]cstnode.Node{callee}, args...)
	return cstnode.NewTree(cstnode.KindCall, "", sp(), children...)
}

func methodCall(method string, receiver cstnode.Node, args ...cstnode.Node) cstnode.Node {
	children := append([]cstnode.Node{receiver}, args...)
	return cstnode.NewTree(cstnode.KindMethodCall, method, sp(), children...)
}

func field(name string, base cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindField, name, sp(), base)
}

func module(items ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindModule, "root", sp(), items...)
}

func structDef(name string, fields ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindStruct, name, sp(), fields...)
}

func structField(name string, ty cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindParameter, name, sp(), ty)
}

func structLit(typeName string, fieldInits ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindStructConstruct, typeName, sp(), fieldInits...)
}

func fieldInit(name string, value cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindField, name, sp(), value)
}

func implBlock(selfTy cstnode.Node, methods ...cstnode.Node) cstnode.Node {
	children := append([]cstnode.Node{selfTy}, methods...)
	return cstnode.NewTree(cstnode.KindImpl, "", sp(), children...)
}

func enumDef(name string, variants ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindEnum, name, sp(), variants...)
}

func tupleVariant(name string, fieldTypes ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindEnumVariant, name, sp(), fieldTypes...)
}

func unitVariant(name string) cstnode.Node {
	return cstnode.NewTree(cstnode.KindEnumVariant, name, sp())
}

func enumCtor(path string, args ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindEnumVariant, path, sp(), args...)
}

func matchExpr(scrutinee cstnode.Node, arms ...cstnode.Node) cstnode.Node {
	children := append([]cstnode.Node{scrutinee}, arms...)
	return cstnode.NewTree(cstnode.KindMatch, "", sp(), children...)
}

func arm(pattern cstnode.Node, body cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindMatchArm, "", sp(), pattern, body)
}

func pat(text string, children ...cstnode.Node) cstnode.Node {
	return cstnode.NewTree(cstnode.KindPattern, text, sp(), children...)
}

// Scenario is one named, runnable demo program: its CST root, a short
// description (surfaced by cmd/orizon-repl's gallery picker), and the
// i64 result the reference interpreter is expected to produce when
// calling its `main` function.
type Scenario struct {
	Name        string
	Description string
	Root        cstnode.Node
	Expect      int64
}

// All returns the gallery of demo programs, in spec.md §8's scenario
// order (1-6).
func All() []Scenario {
	return []Scenario{
		scenario1(), scenario2(), scenario3(), scenario4(), scenario5(), scenario6(),
	}
}

// scenario1: fn main() -> i64 { 2 + 3 * 4 }
func scenario1() Scenario {
	body := block(binOp("+", lit("2"), binOp("*", lit("3"), lit("4"))))
	main := fn("main", params(), ty("i64"), body)
	return Scenario{
		Name:        "arithmetic",
		Description: "2 + 3 * 4, one Add and one Mul in MIR",
		Root:        module(main),
		Expect:      14,
	}
}

// scenario2: fn id<T>(x: T) -> T { x } fn main() -> i64 { id(7) }
func scenario2() Scenario {
	idFn := fn("id", params(param("x", ty("T"))), ty("T"), block(ident("x")), "T")
	main := fn("main", params(), ty("i64"), block(call(ident("id"), lit("7"))))
	return Scenario{
		Name:        "monomorphization",
		Description: "generic identity instantiated at i64 by its call site",
		Root:        module(idFn, main),
		Expect:      7,
	}
}

// scenario3: enum Opt { Some(i64), None }
// fn f(o: Opt) -> i64 { match o { Opt::Some(x) => x, Opt::None => 0 } }
// fn main() -> i64 { f(Opt::None) }
func scenario3() Scenario {
	opt := enumDef("Opt", tupleVariant("Some", ty("i64")), unitVariant("None"))
	matchBody := matchExpr(ident("o"),
		arm(pat("Opt::Some", pat("x")), ident("x")),
		arm(pat("Opt::None"), lit("0")),
	)
	f := fn("f", params(param("o", ty("Opt"))), ty("i64"), block(matchBody))
	main := fn("main", params(), ty("i64"), block(call(ident("f"), enumCtor("Opt::None"))))
	return Scenario{
		Name:        "exhaustive-match",
		Description: "match over Opt with both arms present; no missing patterns",
		Root:        module(opt, f, main),
		Expect:      0,
	}
}

// scenario4: same Opt, but f's match only covers Opt::Some — the
// exhaustiveness checker must report a missing None witness, and
// compilation must still complete (spec §4.4, "never fatal").
func scenario4() Scenario {
	opt := enumDef("Opt", tupleVariant("Some", ty("i64")), unitVariant("None"))
	matchBody := matchExpr(ident("o"),
		arm(pat("Opt::Some", pat("x")), ident("x")),
	)
	f := fn("f", params(param("o", ty("Opt"))), ty("i64"), block(matchBody))
	main := fn("main", params(), ty("i64"), block(call(ident("f"), enumCtor("Opt::Some", lit("5")))))
	return Scenario{
		Name:        "non-exhaustive-match",
		Description: "match over Opt missing the None arm; exhaustiveness reports it as a warning, not an error",
		Root:        module(opt, f, main),
		Expect:      5,
	}
}

// scenario5: fn add_one(x: i64) -> i64 { x + 1 } fn main() -> i64 { add_one(41) }
func scenario5() Scenario {
	addOne := fn("add_one", params(param("x", ty("i64"))), ty("i64"), block(binOp("+", ident("x"), lit("1"))))
	main := fn("main", params(), ty("i64"), block(call(ident("add_one"), lit("41"))))
	return Scenario{
		Name:        "call",
		Description: "a non-generic function call lowered to a direct Call rvalue",
		Root:        module(addOne, main),
		Expect:      42,
	}
}

// scenario6: struct Point { x: i64, y: i64 }; impl Point { fn len(&self) -> i64 { self.x + self.y } }
// fn main() -> i64 { Point{x:3,y:4}.len() }
func scenario6() Scenario {
	point := structDef("Point", structField("x", ty("i64")), structField("y", ty("i64")))
	lenMethod := fn("len", params(selfParam(false)), ty("i64"), block(binOp("+", field("x", ident("self")), field("y", ident("self")))))
	impl := implBlock(ty("Point"), lenMethod)
	main := fn("main", params(), ty("i64"),
		block(methodCall("len", structLit("Point", fieldInit("x", lit("3")), fieldInit("y", lit("4"))))))
	return Scenario{
		Name:        "method-resolution",
		Description: "an inherent impl method resolved and called on a struct literal receiver",
		Root:        module(point, impl, main),
		Expect:      7,
	}
}
