// Package methodresolve implements the method-resolution algorithm
// (spec §4.9) that ties inference and MIR lowering's call-target choice
// together: given a receiver type, a method name, and whether the
// receiver is mutably borrowed, it walks impl blocks — auto-deref'ing
// the receiver first — and returns the resolved function. Both
// internal/types (to compute a MethodCall's return type) and
// internal/mir (to pick the actual call target) go through the single
// Resolver in this package, so the two passes can never disagree about
// which method a call site invokes.
package methodresolve

import (
	"fmt"

	"github.com/orizon-lang/orizon/internal/hir"
	"github.com/orizon-lang/orizon/internal/types"
)

// MethodNotFound reports a method name with no matching impl.
type MethodNotFound struct {
	Method string
}

func (e *MethodNotFound) Error() string { return fmt.Sprintf("no method named %q found", e.Method) }

// MutabilityMismatch reports a trait method requiring `&mut self` called
// through an immutable receiver.
type MutabilityMismatch struct {
	Method string
}

func (e *MutabilityMismatch) Error() string {
	return fmt.Sprintf("method %q requires a mutable receiver", e.Method)
}

// Resolver implements the method-resolution algorithm against a
// hir.Program's impl/trait/type tables.
type Resolver struct {
	Prog *hir.Program
}

// New creates a Resolver over prog.
func New(prog *hir.Program) *Resolver { return &Resolver{Prog: prog} }

// ResolveMethod adapts Resolve to the types.MethodResolver interface,
// consulted by inference to compute a MethodCall's return type. It
// assumes an immutable receiver; MIR lowering, which actually knows the
// receiver's mutability, calls Resolve directly instead.
func (r *Resolver) ResolveMethod(ctx *types.TyContext, receiver types.TyId, method string) (hir.FnId, bool) {
	fnID, _, err := r.Resolve(ctx, receiver, method, false)
	return fnID, err == nil
}

// Resolve is the full algorithm (spec §4.9):
//  1. normalize the receiver, auto-deref'ing through any number of
//     `Ref` layers,
//  2. identify the concrete receiver's TypeDefId (struct/enum) or
//     canonical primitive name,
//  3. search every impl block whose self type matches, preferring a
//     trait-impl's mutability check when the impl implements a trait,
//  4. report MethodNotFound when nothing matched.
//
// autoDerefed reports how many Ref layers were stripped, which MIR
// lowering needs to know how many Deref projections to emit before the
// call (spec §4.6's Place/PlaceElem model).
func (r *Resolver) Resolve(ctx *types.TyContext, receiver types.TyId, method string, receiverMut bool) (fnID hir.FnId, autoDerefed int, err error) {
	resolved := receiver
	for {
		t := ctx.Get(resolved)
		if t.Kind != types.KindRef {
			break
		}
		resolved = t.Data.(types.RefData).Inner
		autoDerefed++
	}

	t := ctx.Get(resolved)
	typeDefID, primName, ok := r.identifyReceiver(t)
	if !ok {
		return 0, autoDerefed, &MethodNotFound{Method: method}
	}

	found := false
	r.Prog.Impls.All(func(_ hir.ImplId, impl hir.ImplBlock) bool {
		if found {
			return true
		}
		if !r.implMatchesSelf(impl, typeDefID, primName) {
			return true
		}

		if impl.TraitRef != nil {
			trait := r.Prog.Traits.Get(*impl.TraitRef)
			for _, sig := range trait.Methods {
				if r.Prog.Symbols.Lookup(sig.Name) != method {
					continue
				}
				if requiresMut(sig) && !receiverMut {
					err = &MutabilityMismatch{Method: method}
					return false
				}
				break
			}
		}

		for _, candidate := range impl.Methods {
			if methodShortName(r.Prog, candidate) == method {
				fnID = candidate
				found = true
				err = nil
				return false
			}
		}
		return true
	})

	if found {
		return fnID, autoDerefed, nil
	}
	if err != nil {
		return 0, autoDerefed, err
	}
	return 0, autoDerefed, &MethodNotFound{Method: method}
}

// requiresMut reports whether sig's receiver parameter is `&mut self`.
func requiresMut(sig hir.TraitMethodSig) bool {
	for _, p := range sig.Params {
		if p.SelfReceiver {
			return p.SelfMut
		}
	}
	return false
}

// identifyReceiver extracts the struct/enum TypeDefId or canonical
// primitive name from a resolved (post-auto-deref) inference type.
func (r *Resolver) identifyReceiver(t types.Ty) (typeDefID hir.TypeId, primName string, ok bool) {
	switch t.Kind {
	case types.KindStruct:
		return hir.TypeId(t.Data.(types.StructData).DefID), "", true
	case types.KindEnum:
		return hir.TypeId(t.Data.(types.EnumData).DefID), "", true
	case types.KindNamed:
		d := t.Data.(types.NamedData)
		if d.Def != nil {
			return hir.TypeId(*d.Def), "", true
		}
		return 0, "", false
	case types.KindInt:
		return 0, "i64", true
	case types.KindFloat:
		return 0, "f64", true
	case types.KindBool:
		return 0, "bool", true
	case types.KindString:
		return 0, "str", true
	default:
		return 0, "", false
	}
}

// implMatchesSelf reports whether impl's self type names the same
// struct/enum definition as typeDefID, or (when typeDefID is zero,
// signalling a primitive receiver) the same canonical primitive name as
// primName.
func (r *Resolver) implMatchesSelf(impl hir.ImplBlock, typeDefID hir.TypeId, primName string) bool {
	ht := r.Prog.Types.Get(impl.SelfTy)
	if ht.Kind != hir.HirTypeNamed {
		return false
	}
	named := ht.Data.(hir.NamedType)

	if primName != "" {
		name := r.Prog.Symbols.Lookup(named.Name)
		canon, ok := canonicalPrimitiveName(name)
		return ok && canon == primName
	}

	if named.Def == nil || named.Def.Kind != hir.DefType {
		return false
	}
	return named.Def.Type == typeDefID
}

// methodShortName returns the unqualified method name a FnId was
// lowered with, stripping the "Self::" qualifier internal/lowering
// attaches to every method (see lowerMethod).
func methodShortName(prog *hir.Program, fnID hir.FnId) string {
	full := prog.Symbols.Lookup(prog.Functions.Get(fnID).Name)
	for i := len(full) - 1; i > 0; i-- {
		if full[i-1] == ':' && full[i] == ':' {
			return full[i+1:]
		}
	}
	return full
}

// canonicalPrimitiveName mirrors internal/types's fromHIR primitive
// mapping, but returns the spec's canonical identifier string (§4.9:
// `"i64"`, `"bool"`, etc.) instead of a TyId, since every integer width
// collapses to a single KindInt in the inference universe and impl
// blocks must be matched against that same canonical name regardless of
// which concrete width the source wrote.
func canonicalPrimitiveName(name string) (string, bool) {
	switch name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
		return "i64", true
	case "f32", "f64":
		return "f64", true
	case "bool":
		return "bool", true
	case "str", "string":
		return "str", true
	default:
		return "", false
	}
}
