package hir

import "github.com/orizon-lang/orizon/internal/interner"

// Visibility marks whether a scope entry is visible outside its owning
// module.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisPublic
)

// ScopeEntry is one name bound within a Scope.
type ScopeEntry struct {
	Def        DefId
	Visibility Visibility
	Mutable    bool
}

// ScopeId names a node of the scope tree.
type ScopeId uint32

// Scope is one lexical scope. Resolution walks outward from the
// innermost scope through Parent to the module root.
type Scope struct {
	Parent  ScopeId // zero means "root, no parent"
	HasPar  bool
	Names   map[interner.Symbol]ScopeEntry
	Kind    ScopeKind
}

// ScopeKind records why a scope exists, mostly useful for diagnostics.
type ScopeKind int

const (
	ScopeModuleRoot ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeMatchArm
	ScopeClosure
)

// ScopeTree owns every Scope allocated during lowering.
type ScopeTree struct {
	scopes []Scope
}

// NewScopeTree creates a tree with a single root scope and returns its id.
func NewScopeTree() (*ScopeTree, ScopeId) {
	t := &ScopeTree{scopes: []Scope{{Kind: ScopeModuleRoot, Names: map[interner.Symbol]ScopeEntry{}}}}
	return t, ScopeId(0)
}

// Push allocates a new child scope under parent and returns its id.
func (t *ScopeTree) Push(parent ScopeId, kind ScopeKind) ScopeId {
	t.scopes = append(t.scopes, Scope{
		Parent: parent,
		HasPar: true,
		Kind:   kind,
		Names:  map[interner.Symbol]ScopeEntry{},
	})
	return ScopeId(len(t.scopes) - 1)
}

// Scope returns the scope for id.
func (t *ScopeTree) Scope(id ScopeId) *Scope { return &t.scopes[id] }

// Define registers name in the scope id, overwriting any prior entry. The
// resolver is responsible for reporting redefinition as an error before
// calling Define when that is the desired semantics.
func (t *ScopeTree) Define(id ScopeId, name interner.Symbol, entry ScopeEntry) {
	t.scopes[id].Names[name] = entry
}

// Lookup walks from id outward through parents, returning the first match.
func (t *ScopeTree) Lookup(id ScopeId, name interner.Symbol) (ScopeEntry, bool) {
	cur := id
	for {
		scope := &t.scopes[cur]
		if entry, ok := scope.Names[name]; ok {
			return entry, true
		}
		if !scope.HasPar {
			return ScopeEntry{}, false
		}
		cur = scope.Parent
	}
}
