package lowering

import (
	"github.com/orizon-lang/orizon/internal/cstnode"
	"github.com/orizon-lang/orizon/internal/hir"
)

// lowerPattern lowers a Pattern CST node and registers any bindings it
// introduces directly in scope. Registration is uniform across Binding,
// Tuple (recursive), Struct (per field), Enum (per sub-pattern), and Or
// (bindings are taken from each alternative) per §4.2.
//
// Pattern node text conventions:
//   - "_": Wildcard.
//   - "name" or "mut name": Binding, optionally with one child as the
//     `@`-sub-pattern.
//   - "|": Or, children are the alternatives.
//   - ".." with two children: Range; Text "..=" marks inclusive.
//   - a literal-looking text with no children: Literal.
//   - a text containing "::" ("Enum::Variant"): Enum, children are the
//     sub-patterns.
//   - KindField children: Struct.
//   - an empty text with children: Tuple.
func (c *Context) lowerPattern(node cstnode.Node, scope hir.ScopeId) hir.PatternId {
	if node == nil {
		return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard})
	}

	text := node.Text()
	children := node.Children()

	switch {
	case text == "_":
		return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard, Span: span(node)})

	case text == "|":
		var alts []hir.PatternId
		for _, ch := range children {
			alts = append(alts, c.lowerPattern(ch, scope))
		}
		return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternOr, Span: span(node), Data: hir.OrPattern{Patterns: alts}})

	case text == ".." || text == "..=":
		if len(children) != 2 {
			return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternWildcard, Span: span(node)})
		}
		start := parseLiteral(children[0].Text())
		end := parseLiteral(children[1].Text())
		return c.Program.Patterns.Alloc(hir.Pattern{
			Kind: hir.PatternRange,
			Span: span(node),
			Data: hir.RangePattern{Start: start, End: end, Inclusive: text == "..="},
		})

	case len(children) == 0 && isLiteralPatternText(text):
		return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternLiteral, Span: span(node), Data: hir.LiteralPattern{Value: parseLiteral(text)}})

	case containsEnumSep(text):
		enumName, variantName := splitEnumPath(text)
		enumSym := c.sym(enumName)
		var defPtr *hir.TypeId
		if tid, ok := c.Program.TypeByName[enumSym]; ok {
			defPtr = &tid
		}
		var subs []hir.PatternId
		for _, ch := range children {
			subs = append(subs, c.lowerPattern(ch, scope))
		}
		return c.Program.Patterns.Alloc(hir.Pattern{
			Kind: hir.PatternEnum,
			Span: span(node),
			Data: hir.EnumPattern{EnumName: enumSym, Variant: c.sym(variantName), Def: defPtr, SubPatterns: subs},
		})

	case len(cstnode.ChildrenOfKind(node, cstnode.KindField)) > 0:
		var defPtr *hir.TypeId
		if tid, ok := c.Program.TypeByName[c.sym(text)]; ok {
			defPtr = &tid
		}
		var fields []hir.FieldPattern
		for _, f := range cstnode.ChildrenOfKind(node, cstnode.KindField) {
			fields = append(fields, hir.FieldPattern{Name: c.sym(f.Text()), Pattern: c.lowerPattern(cstnode.Child(f, 0), scope)})
		}
		return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternStruct, Span: span(node), Data: hir.StructPattern{TypeName: c.sym(text), Ty: defPtr, Fields: fields}})

	case len(children) > 0 && text == "":
		var elems []hir.PatternId
		for _, ch := range children {
			elems = append(elems, c.lowerPattern(ch, scope))
		}
		return c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternTuple, Span: span(node), Data: hir.TuplePattern{Patterns: elems}})

	default:
		name := text
		mutable := false
		if len(name) > 4 && name[:4] == "mut " {
			mutable = true
			name = name[4:]
		}
		sym := c.sym(name)
		var sub *hir.PatternId
		if len(children) == 1 {
			s := c.lowerPattern(children[0], scope)
			sub = &s
		}
		id := c.Program.Patterns.Alloc(hir.Pattern{Kind: hir.PatternBinding, Span: span(node), Data: hir.BindingPattern{Name: sym, Mutable: mutable, SubPattern: sub}})
		c.registerPatternBindings(id, scope)
		return id
	}
}

// registerPatternBindings walks a pattern's binding sites and defines
// them in scope. lowerPattern calls it for each Binding pattern it
// creates; it recurses through sub-patterns and Tuple/Struct/Enum/Or
// children uniformly.
func (c *Context) registerPatternBindings(id hir.PatternId, scope hir.ScopeId) {
	p := c.Program.Patterns.Get(id)
	switch p.Kind {
	case hir.PatternBinding:
		d := p.Data.(hir.BindingPattern)
		def := hir.LocalDef(c.currentFn, c.allocLocal())
		c.Program.Scopes.Define(scope, d.Name, hir.ScopeEntry{Def: def, Mutable: d.Mutable})
		d.Def = &def
		p.Data = d
		c.Program.Patterns.Set(id, p)
		if d.SubPattern != nil {
			c.registerPatternBindings(*d.SubPattern, scope)
		}
	case hir.PatternTuple:
		d := p.Data.(hir.TuplePattern)
		for _, sub := range d.Patterns {
			c.registerPatternBindings(sub, scope)
		}
	case hir.PatternStruct:
		d := p.Data.(hir.StructPattern)
		for _, f := range d.Fields {
			c.registerPatternBindings(f.Pattern, scope)
		}
	case hir.PatternEnum:
		d := p.Data.(hir.EnumPattern)
		for _, sub := range d.SubPatterns {
			c.registerPatternBindings(sub, scope)
		}
	case hir.PatternOr:
		d := p.Data.(hir.OrPattern)
		for _, alt := range d.Patterns {
			c.registerPatternBindings(alt, scope)
		}
	}
}

func isLiteralPatternText(text string) bool {
	if text == "" {
		return false
	}
	if text == "true" || text == "false" {
		return true
	}
	for _, r := range text {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

func containsEnumSep(text string) bool {
	for i := 0; i+1 < len(text); i++ {
		if text[i] == ':' && text[i+1] == ':' {
			return true
		}
	}
	return false
}
