package sortition

import "github.com/google/uuid"

// bimap is the bijection between active identifiers and the node indexes
// holding their weight. Both directions are updated behind this type so
// that call sites cannot change one map and forget the other.
type bimap struct {
	idToNode map[uuid.UUID]int
	nodeToID map[int]uuid.UUID
}

func newBimap() *bimap {
	return &bimap{
		idToNode: map[uuid.UUID]int{},
		nodeToID: map[int]uuid.UUID{},
	}
}

// bind associates id with node, removing any previous association of
// either the id or the node.
func (b *bimap) bind(id uuid.UUID, node int) {
	if n, ok := b.idToNode[id]; ok {
		delete(b.nodeToID, n)
	}
	if prev, ok := b.nodeToID[node]; ok {
		delete(b.idToNode, prev)
	}
	b.idToNode[id] = node
	b.nodeToID[node] = id
}

// unbind removes the association of id, if any.
func (b *bimap) unbind(id uuid.UUID) {
	if n, ok := b.idToNode[id]; ok {
		delete(b.idToNode, id)
		delete(b.nodeToID, n)
	}
}

func (b *bimap) nodeOf(id uuid.UUID) (int, bool) {
	n, ok := b.idToNode[id]
	return n, ok
}

func (b *bimap) idAt(node int) (uuid.UUID, bool) {
	id, ok := b.nodeToID[node]
	return id, ok
}

func (b *bimap) len() int {
	return len(b.idToNode)
}

// each calls f for every (id, node) pair in unspecified order.
func (b *bimap) each(f func(id uuid.UUID, node int)) {
	for id, n := range b.idToNode {
		f(id, n)
	}
}
