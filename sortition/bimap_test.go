package sortition

import (
	"testing"

	"github.com/google/uuid"
)

func TestBimap_bind(t *testing.T) {
	b := newBimap()

	b.bind(uid(1), 3)

	if n, ok := b.nodeOf(uid(1)); !ok || n != 3 {
		t.Errorf("nodeOf(1): want (3, true), got (%d, %t)", n, ok)
	}
	if id, ok := b.idAt(3); !ok || id != uid(1) {
		t.Errorf("idAt(3): want (%v, true), got (%v, %t)", uid(1), id, ok)
	}
	if got := b.len(); got != 1 {
		t.Errorf("len(): want 1, got %d", got)
	}
}

func TestBimap_bind_movesID(t *testing.T) {
	b := newBimap()
	b.bind(uid(1), 3)

	b.bind(uid(1), 7)

	if n, ok := b.nodeOf(uid(1)); !ok || n != 7 {
		t.Errorf("nodeOf(1): want (7, true), got (%d, %t)", n, ok)
	}
	if _, ok := b.idAt(3); ok {
		t.Error("idAt(3): stale reverse entry survived rebind")
	}
	if got := b.len(); got != 1 {
		t.Errorf("len(): want 1, got %d", got)
	}
}

func TestBimap_bind_evictsNodeOccupant(t *testing.T) {
	b := newBimap()
	b.bind(uid(1), 3)

	b.bind(uid(2), 3)

	if id, ok := b.idAt(3); !ok || id != uid(2) {
		t.Errorf("idAt(3): want (%v, true), got (%v, %t)", uid(2), id, ok)
	}
	if _, ok := b.nodeOf(uid(1)); ok {
		t.Error("nodeOf(1): stale forward entry survived eviction")
	}
	if got := b.len(); got != 1 {
		t.Errorf("len(): want 1, got %d", got)
	}
}

func TestBimap_unbind(t *testing.T) {
	b := newBimap()
	b.bind(uid(1), 3)
	b.bind(uid(2), 4)

	b.unbind(uid(1))
	b.unbind(uid(9)) // unknown ids are ignored

	if _, ok := b.nodeOf(uid(1)); ok {
		t.Error("nodeOf(1): want not found after unbind")
	}
	if _, ok := b.idAt(3); ok {
		t.Error("idAt(3): want not found after unbind")
	}
	if n, ok := b.nodeOf(uid(2)); !ok || n != 4 {
		t.Errorf("nodeOf(2): want (4, true), got (%d, %t)", n, ok)
	}
}

func TestBimap_each(t *testing.T) {
	b := newBimap()
	b.bind(uid(1), 3)
	b.bind(uid(2), 4)

	got := map[int]bool{}
	b.each(func(_ uuid.UUID, node int) {
		got[node] = true
	})

	if len(got) != 2 || !got[3] || !got[4] {
		t.Errorf("each(): visited %v, want nodes 3 and 4", got)
	}
}
