package sortition

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rhartert/sparsesets"
	"github.com/rhartert/yagh"
)

const initHeapCap = 64

// Tree is a k-ary sum tree mapping identifiers to stakes. Setting a
// non-zero stake on an unknown identifier activates it; setting its
// stake to 0 deactivates it and recycles its slot. Draws select an
// active identifier with probability stake/total.
type Tree struct {
	k int

	// nodes represents a k-ary tree with the root at index 0. The node
	// at index i > 0 is child ((i-1) mod k) of the node at index
	// (i-1)/k. The weight of an internal node is the sum of its
	// children's weights, so nodes[0] always holds the total stake. The
	// slice never shrinks: slots whose weight drops to 0 are recycled
	// through the free stack.
	nodes []uint64

	// free is a LIFO stack of node indexes holding weight 0 and bound
	// to no identifier. Insertions reuse the top of the stack before
	// appending to nodes.
	free []int

	ids *bimap

	// byStake orders the active node indexes by descending stake using
	// negated costs (math.MaxUint64 - stake), so that Min is the
	// heaviest identifier. Slots without a stake are parked at the
	// worst cost rather than removed.
	byStake *yagh.IntMap[uint64]
	heapCap int
}

// NewTree returns an empty tree where each node has at most k children.
func NewTree(k int) (*Tree, error) {
	if k < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBranching, k)
	}
	return &Tree{
		k:       k,
		nodes:   []uint64{0},
		ids:     newBimap(),
		byStake: yagh.New[uint64](initHeapCap),
		heapCap: initHeapCap,
	}, nil
}

// K returns the tree's branching factor.
func (t *Tree) K() int {
	return t.k
}

// Total returns the sum of all active stakes.
func (t *Tree) Total() uint64 {
	return t.nodes[0]
}

// Len returns the number of active identifiers.
func (t *Tree) Len() int {
	return t.ids.len()
}

// StakeOf returns the current stake of id, or 0 if id holds none.
func (t *Tree) StakeOf(id uuid.UUID) uint64 {
	if node, ok := t.ids.nodeOf(id); ok {
		return t.nodes[node]
	}
	return 0
}

// Set inserts, updates, or removes the stake of id. O(log_k n).
func (t *Tree) Set(id uuid.UUID, weight uint64) error {
	node, active := t.ids.nodeOf(id)
	switch {
	case active && weight == 0:
		prev := t.nodes[node]
		t.nodes[node] = 0
		t.free = append(t.free, node)
		t.ids.unbind(id)
		t.park(node)
		return t.updateParents(node, false, prev)

	case active:
		prev := t.nodes[node]
		if weight == prev {
			return nil
		}
		t.nodes[node] = weight
		t.rank(node)
		if weight > prev {
			return t.updateParents(node, true, weight-prev)
		}
		return t.updateParents(node, false, prev-weight)

	case weight == 0:
		return nil
	}

	node, err := t.allocate(weight)
	if err != nil {
		return err
	}
	t.ids.bind(id, node)
	t.rank(node)
	return t.updateParents(node, true, weight)
}

// allocate returns a node index holding weight, either by recycling the
// most recently freed slot or by appending to the node array.
func (t *Tree) allocate(weight uint64) (int, error) {
	if n := len(t.free); n > 0 {
		node := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[node] = weight
		return node, nil
	}

	node := len(t.nodes)
	t.nodes = append(t.nodes, weight)
	if node != 1 && (node-1)%t.k == 0 {
		// Appending the first child of a leaf turns that leaf into an
		// aggregator: its weight moves one slot down to a fresh node
		// and its identifier follows, so the parent slot now only
		// aggregates its children.
		parent := t.parentOf(node)
		id, ok := t.ids.idAt(parent)
		if !ok {
			return 0, fmt.Errorf("%w: node %d gained children but holds no identifier", ErrCorrupted, parent)
		}
		moved := len(t.nodes)
		t.nodes = append(t.nodes, t.nodes[parent])
		t.ids.bind(id, moved)
		t.park(parent)
		t.rank(moved)
	}
	return node, nil
}

// updateParents propagates a weight delta from node up to and including
// the root, adding (add=true) or subtracting the amount at every
// ancestor. Arithmetic is checked: wrapping around would silently break
// the sum invariant.
func (t *Tree) updateParents(node int, add bool, amount uint64) error {
	for i := node; i != 0; {
		i = t.parentOf(i)
		if add {
			if t.nodes[i] > math.MaxUint64-amount {
				return fmt.Errorf("%w: node %d overflows adding %d", ErrCorrupted, i, amount)
			}
			t.nodes[i] += amount
		} else {
			if t.nodes[i] < amount {
				return fmt.Errorf("%w: node %d underflows subtracting %d", ErrCorrupted, i, amount)
			}
			t.nodes[i] -= amount
		}
	}
	return nil
}

// Draw returns the identifier selected by the weighted draw for
// drawnNumber. The number is reduced modulo the total stake; each
// identifier is selected with probability stake/total. The result is
// fully deterministic for a given tree state and number. O(k*log_k n).
func (t *Tree) Draw(drawnNumber uint64) (uuid.UUID, error) {
	if t.nodes[0] == 0 {
		return uuid.Nil, ErrEmptyTree
	}
	node, err := t.drawNode(drawnNumber)
	if err != nil {
		return uuid.Nil, err
	}
	id, ok := t.ids.idAt(node)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: drawn node %d holds no identifier", ErrCorrupted, node)
	}
	return id, nil
}

// drawNode descends from the root to the leaf whose interval contains
// drawnNumber mod total. The children of a node split [0, weight) into
// contiguous weight-sized intervals in index order.
func (t *Tree) drawNode(drawnNumber uint64) (int, error) {
	remaining := drawnNumber % t.nodes[0]
	node := 0
	for !t.isLeaf(node) {
		descended := false
		first := t.firstChild(node)
		for c := first; c < first+t.k && c < len(t.nodes); c++ {
			if remaining >= t.nodes[c] {
				remaining -= t.nodes[c]
				continue
			}
			node = c
			descended = true
			break
		}
		if !descended {
			return 0, fmt.Errorf("%w: draw ran past the children of node %d", ErrCorrupted, node)
		}
	}
	return node, nil
}

// Heaviest returns the identifier holding the largest stake and its
// weight in O(1). The boolean is false if the tree has no active
// identifier. Ties resolve to an arbitrary one of the tied stakes.
func (t *Tree) Heaviest() (uuid.UUID, uint64, bool) {
	entry := t.byStake.Min()
	if entry == nil {
		return uuid.Nil, 0, false
	}
	weight := t.nodes[entry.Elem]
	if weight == 0 {
		// Only parked slots remain.
		return uuid.Nil, 0, false
	}
	id, ok := t.ids.idAt(entry.Elem)
	if !ok {
		return uuid.Nil, 0, false
	}
	return id, weight, true
}

// DrawDistinct draws one winner per number in drawnNumbers without
// replacement: each winner's stake is excluded from the following draws
// and every stake is restored before returning. Fewer winners than
// numbers are returned if the active stake runs out mid-batch. Drawing
// from an empty tree fails with ErrEmptyTree.
func (t *Tree) DrawDistinct(drawnNumbers []uint64) ([]uuid.UUID, error) {
	if t.nodes[0] == 0 {
		return nil, ErrEmptyTree
	}
	if len(drawnNumbers) == 0 {
		return nil, nil
	}

	type exclusion struct {
		id     uuid.UUID
		weight uint64
	}

	// The node array cannot grow during the batch: every slot zeroed
	// here is recycled by the restore pass, so the scratch set can be
	// sized once.
	won := sparsesets.New(len(t.nodes))
	winners := make([]uuid.UUID, 0, len(drawnNumbers))
	excluded := make([]exclusion, 0, len(drawnNumbers))

	var err error
	for _, num := range drawnNumbers {
		if t.nodes[0] == 0 {
			break
		}
		var node int
		if node, err = t.drawNode(num); err != nil {
			break
		}
		if won.Contains(node) {
			err = fmt.Errorf("%w: node %d drawn twice without replacement", ErrCorrupted, node)
			break
		}
		id, ok := t.ids.idAt(node)
		if !ok {
			err = fmt.Errorf("%w: drawn node %d holds no identifier", ErrCorrupted, node)
			break
		}
		weight := t.nodes[node]
		if err = t.Set(id, 0); err != nil {
			break
		}
		won.Insert(node)
		winners = append(winners, id)
		excluded = append(excluded, exclusion{id, weight})
	}

	// Restore in reverse order so that each stake pops the free stack
	// back onto the exact node it was drawn from.
	for i := len(excluded) - 1; i >= 0; i-- {
		if rerr := t.Set(excluded[i].id, excluded[i].weight); rerr != nil && err == nil {
			err = rerr
		}
	}
	if err != nil {
		return nil, err
	}
	return winners, nil
}

// rank records node's current weight in the by-stake heap, growing the
// heap first if the node array outgrew it.
func (t *Tree) rank(node int) {
	t.growHeapFor(node)
	t.byStake.Put(node, math.MaxUint64-t.nodes[node])
}

// park marks node as holding no stake.
func (t *Tree) park(node int) {
	t.growHeapFor(node)
	t.byStake.Put(node, math.MaxUint64)
}

// growHeapFor rebuilds the by-stake heap with a doubled capacity until
// it can hold node. Parked slots are dropped by the rebuild; active
// ones are re-inserted from the identifier map.
func (t *Tree) growHeapFor(node int) {
	if node < t.heapCap {
		return
	}
	for t.heapCap <= node {
		t.heapCap *= 2
	}
	t.byStake = yagh.New[uint64](t.heapCap)
	t.ids.each(func(_ uuid.UUID, n int) {
		t.byStake.Put(n, math.MaxUint64-t.nodes[n])
	})
}

func (t *Tree) parentOf(i int) int {
	return (i - 1) / t.k
}

func (t *Tree) firstChild(i int) int {
	return t.k*i + 1
}

func (t *Tree) isLeaf(i int) bool {
	return t.firstChild(i) >= len(t.nodes)
}
