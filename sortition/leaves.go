package sortition

// LeavesPage is one page of leaf-level weights returned by QueryLeaves.
type LeavesPage struct {
	// StartIndex is the node index at which the leaf level begins. It
	// is 0 only when the tree is empty, in which case the page covers
	// the root itself.
	StartIndex int

	// Values holds the raw weights of consecutive leaf slots, recycled
	// (zero) slots included.
	Values []uint64

	// HasMore reports whether leaf slots remain beyond this page.
	HasMore bool
}

// QueryLeaves returns up to count leaf weights starting cursor slots
// after the first leaf. Concatenating pages while advancing cursor by
// the number of values returned enumerates the whole leaf level in
// index order. A negative cursor reads from the first leaf. O(count).
func (t *Tree) QueryLeaves(cursor, count int) LeavesPage {
	page := LeavesPage{StartIndex: t.leafStart()}
	from := page.StartIndex + max(cursor, 0)
	for i := from; i < len(t.nodes); i++ {
		if len(page.Values) >= count {
			page.HasMore = true
			break
		}
		page.Values = append(page.Values, t.nodes[i])
	}
	return page
}

// leafStart returns the smallest index whose children would all fall
// outside the node array, which is where the leaf level begins. For an
// empty tree this is the root itself.
func (t *Tree) leafStart() int {
	// Smallest i with k*i+1 >= len(nodes), i.e. ceil((len-1)/k).
	return (len(t.nodes) - 2 + t.k) / t.k
}
