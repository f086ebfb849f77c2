package lowering

import (
	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/interner"
)

func (c *Context) withGenerics(names []interner.Symbol, fn func()) {
	prev := make(map[interner.Symbol]bool, len(c.genericScope))
	for k, v := range c.genericScope {
		prev[k] = v
	}
	for _, n := range names {
		c.genericScope[n] = true
	}
	fn()
	c.genericScope = prev
}

func (c *Context) genericParamNames(node cstnode.Node) []interner.Symbol {
	gp := cstnode.FirstOfKind(node, cstnode.KindGenericParams)
	if gp == nil {
		return nil
	}
	var out []interner.Symbol
	for _, id := range gp.Children() {
		out = append(out, c.sym(id.Text()))
	}
	return out
}

func (c *Context) lowerStructBody(node cstnode.Node) {
	sym := c.sym(node.Text())
	tid := c.Program.TypeByName[sym]
	def := c.Program.Struct(tid)
	def.Generic = c.genericParamNames(node)

	c.withGenerics(def.Generic, func() {
		for _, field := range cstnode.ChildrenOfKind(node, cstnode.KindParameter) {
			def.Fields = append(def.Fields, hir.FieldDef{
				Name: c.sym(field.Text()),
				Ty:   c.lowerType(cstnode.Child(field, 0)),
			})
		}
	})
}

func (c *Context) lowerEnumBody(node cstnode.Node) {
	sym := c.sym(node.Text())
	tid := c.Program.TypeByName[sym]
	def := c.Program.Enum(tid)
	def.Generic = c.genericParamNames(node)

	c.withGenerics(def.Generic, func() {
		for _, variant := range cstnode.ChildrenOfKind(node, cstnode.KindEnumVariant) {
			v := hir.EnumVariantDef{Name: c.sym(variant.Text())}
			structFields := cstnode.ChildrenOfKind(variant, cstnode.KindParameter)
			tupleFields := cstnode.ChildrenOfKind(variant, cstnode.KindType)
			switch {
			case len(structFields) > 0:
				v.Fields.Kind = hir.VariantStruct
				for _, f := range structFields {
					v.Fields.StructFields = append(v.Fields.StructFields, hir.FieldDef{
						Name: c.sym(f.Text()),
						Ty:   c.lowerType(cstnode.Child(f, 0)),
					})
				}
			case len(tupleFields) > 0:
				v.Fields.Kind = hir.VariantTuple
				for _, t := range tupleFields {
					v.Fields.TupleFields = append(v.Fields.TupleFields, c.lowerType(t))
				}
			default:
				v.Fields.Kind = hir.VariantUnit
			}
			def.Variants = append(def.Variants, v)
		}
	})
}

func (c *Context) lowerTraitBody(node cstnode.Node) {
	sym := c.sym(node.Text())
	tid, ok := c.Program.TraitByName[sym]
	if !ok {
		return
	}
	def := c.Program.Traits.Get(tid)
	for _, fn := range cstnode.ChildrenOfKind(node, cstnode.KindFunction) {
		sig := hir.TraitMethodSig{Name: c.sym(fn.Text())}
		sig.Params, sig.ReturnTy = c.lowerSignature(fn)
		def.Methods = append(def.Methods, sig)
	}
	c.Program.Traits.Set(tid, def)
}

func (c *Context) lowerSignature(fnNode cstnode.Node) ([]hir.Param, hir.HirTypeId) {
	var params []hir.Param
	if paramsNode := cstnode.FirstOfKind(fnNode, cstnode.KindParameters); paramsNode != nil {
		for _, p := range paramsNode.Children() {
			params = append(params, c.lowerParam(p))
		}
	}
	retNode := cstnode.FirstOfKind(fnNode, cstnode.KindType)
	return params, c.lowerType(retNode)
}

func (c *Context) lowerParam(node cstnode.Node) hir.Param {
	text := node.Text()
	if text == "self" || text == "&self" || text == "&mut self" {
		return hir.Param{
			Name:         c.sym("self"),
			SelfReceiver: true,
			SelfMut:      text == "&mut self",
		}
	}
	return hir.Param{Name: c.sym(text), Ty: c.lowerType(cstnode.Child(node, 0))}
}

func (c *Context) lowerImpl(node cstnode.Node, scope hir.ScopeId) {
	types := cstnode.ChildrenOfKind(node, cstnode.KindType)
	var traitTypeNode, selfTypeNode cstnode.Node
	switch len(types) {
	case 1:
		selfTypeNode = types[0]
	case 2:
		traitTypeNode, selfTypeNode = types[0], types[1]
	default:
		c.errorf("lowering: impl block missing a self type")
		return
	}

	selfTy := c.lowerType(selfTypeNode)

	var traitRef *hir.TraitId
	if traitTypeNode != nil {
		if tid, ok := c.Program.TraitByName[c.sym(traitTypeNode.Text())]; ok {
			traitRef = &tid
		}
	}

	impl := hir.ImplBlock{SelfTy: selfTy, TraitRef: traitRef}
	implID := c.Program.Impls.Alloc(impl)

	for _, fnNode := range cstnode.ChildrenOfKind(node, cstnode.KindFunction) {
		fnID := c.lowerMethod(fnNode, scope, selfTypeNode.Text())
		impl.Methods = append(impl.Methods, fnID)
	}
	impl.Self = implID
	c.Program.Impls.Set(implID, impl)
}

// lowerMethod lowers a Function node nested inside an impl block. Its
// name is qualified by the self type for FnByName lookups used by
// internal/methodresolve, e.g. "Point::len".
func (c *Context) lowerMethod(node cstnode.Node, scope hir.ScopeId, selfTypeName string) hir.FnId {
	qualified := c.sym(selfTypeName + "::" + node.Text())
	fn := hir.Function{Name: qualified}
	id := c.Program.Functions.Alloc(fn)
	c.Program.FnByName[qualified] = id
	c.lowerFunctionInto(node, id, scope)
	return id
}

func (c *Context) lowerFunctionBody(node cstnode.Node, scope hir.ScopeId) {
	name := c.sym(node.Text())
	id, ok := c.Program.FnByName[name]
	if !ok {
		c.errorf("lowering: function %q not registered", node.Text())
		return
	}
	c.lowerFunctionInto(node, id, scope)
}

func (c *Context) lowerFunctionInto(node cstnode.Node, id hir.FnId, scope hir.ScopeId) {
	fn := c.Program.Functions.Get(id)
	fn.Self = id
	fn.Generic = c.genericParamNames(node)
	fn.IsGeneric = len(fn.Generic) > 0

	prevFn, prevLocal := c.currentFn, c.nextLocal
	c.currentFn = id
	c.nextLocal = 0

	c.withGenerics(fn.Generic, func() {
		fn.Params, fn.ReturnTy = c.lowerSignature(node)

		fnScope := c.Program.Scopes.Push(scope, hir.ScopeFunction)
		for i := range fn.Params {
			def := hir.LocalDef(id, c.allocLocal())
			fn.Params[i].Def = &def
			c.Program.Scopes.Define(fnScope, fn.Params[i].Name, hir.ScopeEntry{
				Def:     def,
				Mutable: fn.Params[i].SelfMut,
			})
		}

		block := cstnode.FirstOfKind(node, cstnode.KindBlock)
		if block != nil {
			fn.Body = c.lowerBlock(block, fnScope)
		}
	})

	c.currentFn, c.nextLocal = prevFn, prevLocal

	c.Program.Functions.Set(id, fn)

	// Closure capture analysis runs over every closure literal found in
	// the freshly lowered body (§4.7); it needs the function's own
	// scope tree entries to already exist, so it runs here rather than
	// during expression lowering itself.
	if fn.Body.Valid() {
		c.computeClosureCaptures(fn.Body)
	}
}
