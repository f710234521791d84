package sortition

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTree_QueryLeaves_emptyTree(t *testing.T) {
	tree := mustTree(t, 2)

	page := tree.QueryLeaves(0, 10)

	// An empty tree has no leaf level: start index 0 reports the root
	// itself, whose weight is 0.
	want := LeavesPage{StartIndex: 0, Values: []uint64{0}, HasMore: false}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("QueryLeaves(): mismatch (-want +got):\n%s", diff)
	}
}

func TestTree_QueryLeaves_singleStake(t *testing.T) {
	tree := mustTree(t, 2)
	tree.Set(uid(1), 10)

	page := tree.QueryLeaves(0, 10)

	want := LeavesPage{StartIndex: 1, Values: []uint64{10}, HasMore: false}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("QueryLeaves(): mismatch (-want +got):\n%s", diff)
	}
}

func TestTree_QueryLeaves_paginationIsComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := mustTree(t, 3)
	for i := 0; i < 40; i++ {
		tree.Set(uid(byte(i+1)), uint64(rng.Intn(100)+1))
	}
	// Free a few slots so pages include recycled zeroes.
	tree.Set(uid(5), 0)
	tree.Set(uid(17), 0)

	var got []uint64
	cursor := 0
	for {
		page := tree.QueryLeaves(cursor, 7)
		got = append(got, page.Values...)
		cursor += len(page.Values)
		if !page.HasMore {
			break
		}
		if len(page.Values) == 0 {
			t.Fatal("QueryLeaves(): empty page with HasMore set")
		}
	}

	want := append([]uint64(nil), tree.nodes[tree.leafStart():]...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("concatenated pages: mismatch (-want +got):\n%s", diff)
	}
}

func TestTree_QueryLeaves_cursorPastEnd(t *testing.T) {
	tree := mustTree(t, 2)
	tree.Set(uid(1), 10)

	page := tree.QueryLeaves(100, 5)

	if len(page.Values) != 0 || page.HasMore {
		t.Errorf("QueryLeaves(100, 5): want empty page without HasMore, got %+v", page)
	}
}

func TestTree_QueryLeaves_hasMore(t *testing.T) {
	tree := mustTree(t, 2)
	for i := byte(1); i <= 4; i++ {
		tree.Set(uid(i), uint64(i))
	}

	first := tree.QueryLeaves(0, 2)
	if !first.HasMore {
		t.Error("QueryLeaves(0, 2): want HasMore on first page")
	}

	rest := tree.QueryLeaves(2, 100)
	if rest.HasMore {
		t.Error("QueryLeaves(2, 100): want HasMore unset on final page")
	}
}
