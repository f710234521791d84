package sortition

import "errors"

var (
	// ErrNoTree is returned by registry operations addressed to a key
	// under which no tree was created.
	ErrNoTree = errors.New("no tree registered under this key")

	// ErrTreeExists is returned by CreateTree when the key is already in
	// use. Trees are never silently replaced.
	ErrTreeExists = errors.New("a tree is already registered under this key")

	// ErrBranching is returned when a tree is created with a branching
	// factor smaller than 2.
	ErrBranching = errors.New("branching factor must be at least 2")

	// ErrEmptyTree is returned by draws on a tree whose total weight is
	// zero; there is nothing to select from.
	ErrEmptyTree = errors.New("tree holds no weight to draw from")

	// ErrCorrupted reports that the tree's sum or mapping invariants no
	// longer hold. It always indicates a bug in this package, never a
	// caller error.
	ErrCorrupted = errors.New("sum tree invariants corrupted")
)
