package meta

import (
	"fmt"
	"sort"

	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/internal/hash"
)

// Registry is the arena-based scope/variable metadata store for one
// WaveformDB. Scopes are held in a flat map indexed by id, not an owning
// tree of pointers (Design Note §9); scope_tree() reconstructs the
// parent→children view on demand rather than maintaining it incrementally.
type Registry struct {
	scopes    map[uint32]Scope
	variables map[uint32][]*Variable          // scope id -> declared variables, in declaration order
	byName    map[uint32]map[uint64][]*Variable // scope id -> name hash -> bucket (collisions resolved by full-string compare)
}

// NewRegistry creates a Registry seeded with the implicit root scope (id 0).
func NewRegistry() *Registry {
	return &Registry{
		scopes:    map[uint32]Scope{0: {ID: 0, ParentID: 0, Name: ""}},
		variables: make(map[uint32][]*Variable),
		byName:    make(map[uint32]map[uint64][]*Variable),
	}
}

// DeclareScope registers scopeID as a child of parentScopeID. Fails with
// errs.ErrUnknownScope if parentScopeID was never declared (and is not
// the implicit root, 0), or errs.ErrAlreadyDeclared if scopeID is 0 or
// already registered.
func (r *Registry) DeclareScope(parentScopeID, scopeID uint32, name string) error {
	if _, ok := r.scopes[parentScopeID]; !ok {
		return fmt.Errorf("%w: parent scope %d", errs.ErrUnknownScope, parentScopeID)
	}

	if _, exists := r.scopes[scopeID]; exists {
		return fmt.Errorf("%w: scope %d", errs.ErrAlreadyDeclared, scopeID)
	}

	r.scopes[scopeID] = Scope{ID: scopeID, ParentID: parentScopeID, Name: name}

	return nil
}

// DeclareVariable registers a variable named name under scopeID. Fails
// with errs.ErrUnknownScope if scopeID was never declared, or
// errs.ErrAlreadyDeclared if a variable with the same name already exists
// in that scope.
func (r *Registry) DeclareVariable(scopeID uint32, name string, interp Interpretation) error {
	if _, ok := r.scopes[scopeID]; !ok {
		return fmt.Errorf("%w: scope %d", errs.ErrUnknownScope, scopeID)
	}

	if _, _, found := r.lookup(scopeID, name); found {
		return fmt.Errorf("%w: variable %q in scope %d", errs.ErrAlreadyDeclared, name, scopeID)
	}

	v := &Variable{ScopeID: scopeID, Name: name, Interpretation: interp}
	r.variables[scopeID] = append(r.variables[scopeID], v)

	h := hash.ID(name)
	bucket := r.byName[scopeID]
	if bucket == nil {
		bucket = make(map[uint64][]*Variable)
		r.byName[scopeID] = bucket
	}
	bucket[h] = append(bucket[h], v)

	return nil
}

func (r *Registry) lookup(scopeID uint32, name string) (*Variable, uint64, bool) {
	h := hash.ID(name)
	for _, v := range r.byName[scopeID][h] {
		if v.Name == name {
			return v, h, true
		}
	}

	return nil, h, false
}

// Lookup returns the variable named name in scopeID, resolving the
// xxhash bucket by full-string comparison to absorb any hash collision.
func (r *Registry) Lookup(scopeID uint32, name string) (*Variable, bool) {
	v, _, found := r.lookup(scopeID, name)
	return v, found
}

// Scope returns the scope registered under id, if any.
func (r *Registry) Scope(id uint32) (Scope, bool) {
	s, ok := r.scopes[id]
	return s, ok
}

// Variables returns every variable declared directly under scopeID, in
// declaration order.
func (r *Registry) Variables(scopeID uint32) []*Variable {
	return r.variables[scopeID]
}

// ScopeNode is one node of the on-demand scope tree view.
type ScopeNode struct {
	Scope    Scope
	Children []*ScopeNode
}

// ScopeTree reconstructs the parent→children view over every registered
// scope, rooted at scope 0. It is rebuilt fresh on each call rather than
// maintained incrementally.
func (r *Registry) ScopeTree() *ScopeNode {
	nodes := make(map[uint32]*ScopeNode, len(r.scopes))
	for id, s := range r.scopes {
		nodes[id] = &ScopeNode{Scope: s}
	}

	for id, node := range nodes {
		if node.Scope.IsRoot() {
			continue
		}

		if parent, ok := nodes[node.Scope.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	for _, node := range nodes {
		sort.Slice(node.Children, func(i, j int) bool {
			return node.Children[i].Scope.ID < node.Children[j].Scope.ID
		})
	}

	return nodes[0]
}
