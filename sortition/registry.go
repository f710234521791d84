package sortition

import (
	"fmt"

	"github.com/google/uuid"
)

// Registry holds independent sum trees addressed by caller-chosen keys.
// It is a plain value owned by the host; create one with New. Every
// operation routes to the addressed tree and fails with ErrNoTree when
// the key is unknown.
type Registry struct {
	trees map[string]*Tree
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{trees: map[string]*Tree{}}
}

// CreateTree creates an empty tree under key where each node has at
// most k children. Keys are never overwritten: creating a tree under an
// existing key fails with ErrTreeExists.
func (r *Registry) CreateTree(key string, k int) error {
	if _, ok := r.trees[key]; ok {
		return fmt.Errorf("%w: %q", ErrTreeExists, key)
	}
	t, err := NewTree(k)
	if err != nil {
		return err
	}
	r.trees[key] = t
	return nil
}

// Tree returns the tree registered under key.
func (r *Registry) Tree(key string) (*Tree, error) {
	t, ok := r.trees[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoTree, key)
	}
	return t, nil
}

// Set inserts, updates, or removes the stake of id in the tree under
// key.
func (r *Registry) Set(key string, id uuid.UUID, weight uint64) error {
	t, err := r.Tree(key)
	if err != nil {
		return err
	}
	return t.Set(id, weight)
}

// StakeOf returns the stake id holds in the tree under key, or 0 if it
// holds none.
func (r *Registry) StakeOf(key string, id uuid.UUID) (uint64, error) {
	t, err := r.Tree(key)
	if err != nil {
		return 0, err
	}
	return t.StakeOf(id), nil
}

// Total returns the sum of all active stakes in the tree under key.
func (r *Registry) Total(key string) (uint64, error) {
	t, err := r.Tree(key)
	if err != nil {
		return 0, err
	}
	return t.Total(), nil
}

// Draw selects an identifier from the tree under key with probability
// proportional to its stake, as directed by drawnNumber.
func (r *Registry) Draw(key string, drawnNumber uint64) (uuid.UUID, error) {
	t, err := r.Tree(key)
	if err != nil {
		return uuid.Nil, err
	}
	return t.Draw(drawnNumber)
}

// DrawDistinct draws one winner per number without replacement from the
// tree under key.
func (r *Registry) DrawDistinct(key string, drawnNumbers []uint64) ([]uuid.UUID, error) {
	t, err := r.Tree(key)
	if err != nil {
		return nil, err
	}
	return t.DrawDistinct(drawnNumbers)
}

// Heaviest returns the identifier holding the largest stake in the tree
// under key. It fails with ErrEmptyTree when no stake is active.
func (r *Registry) Heaviest(key string) (uuid.UUID, uint64, error) {
	t, err := r.Tree(key)
	if err != nil {
		return uuid.Nil, 0, err
	}
	id, weight, ok := t.Heaviest()
	if !ok {
		return uuid.Nil, 0, ErrEmptyTree
	}
	return id, weight, nil
}

// QueryLeaves pages over the leaf-level weights of the tree under key.
func (r *Registry) QueryLeaves(key string, cursor, count int) (LeavesPage, error) {
	t, err := r.Tree(key)
	if err != nil {
		return LeavesPage{}, err
	}
	return t.QueryLeaves(cursor, count), nil
}
