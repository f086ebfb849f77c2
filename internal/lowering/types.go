package lowering

import (
	"strings"

	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
)

var primitiveTypeNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true, "bool": true, "str": true, "()": true,
}

// lowerType converts a Type CST node into a HirTypeId. Conventions (this
// codebase builds its own CST trees in internal/demoprograms, since a
// real parser is out of scope per spec.md §1, so these conventions are
// self-consistent rather than tied to any external grammar):
//   - Text == "&" or "&mut": Reference, single child is the inner type.
//   - Text == "fn": Function type, all children but the last are
//     parameter types, the last child is the return type.
//   - Otherwise: a name. If the name is a generic parameter currently in
//     scope, Generic{name}; if it names an already-registered struct or
//     enum, Named{name, def: Some(...), args: children}; else Named with
//     Def left nil (primitives, or names not registered yet).
func (c *Context) lowerType(node cstnode.Node) hir.HirTypeId {
	if node == nil {
		return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeUnknown})
	}

	text := node.Text()
	switch {
	case text == "&" || text == "&mut":
		inner := cstnode.Child(node, 0)
		return c.Program.Types.Alloc(hir.HirType{
			Kind: hir.HirTypeReference,
			Data: hir.ReferenceType{Mutable: text == "&mut", Inner: c.lowerType(inner)},
		})
	case text == "fn":
		children := node.Children()
		if len(children) == 0 {
			return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeUnknown})
		}
		var params []hir.HirTypeId
		for _, p := range children[:len(children)-1] {
			params = append(params, c.lowerType(p))
		}
		ret := c.lowerType(children[len(children)-1])
		return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeFunction, Data: hir.FunctionType{Params: params, Ret: ret}})
	case text == "[]":
		children := node.Children()
		if len(children) != 2 {
			return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeUnknown})
		}
		elem := c.lowerType(children[0])
		size := c.lowerExpr(children[1], c.Program.RootScope)
		return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeArray, Data: hir.ArrayType{Element: elem, Size: size}})
	case strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") && text != "()":
		var elems []hir.HirTypeId
		for _, ch := range node.Children() {
			elems = append(elems, c.lowerType(ch))
		}
		return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeTuple, Data: hir.TupleType{Elements: elems}})
	default:
		sym := c.sym(text)
		if c.genericScope[sym] {
			return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeGeneric, Data: hir.GenericType{Name: sym}})
		}
		var def *hir.DefId
		if tid, ok := c.Program.TypeByName[sym]; ok {
			d := hir.TypeDefRef(tid)
			def = &d
		}
		var args []hir.HirTypeId
		for _, ch := range node.Children() {
			args = append(args, c.lowerType(ch))
		}
		return c.Program.Types.Alloc(hir.HirType{Kind: hir.HirTypeNamed, Data: hir.NamedType{Name: sym, Def: def, Args: args}})
	}
}
