package lowalloc

import "github.com/orizon-lang/orizon-memdebug/internal/memdebug/rangeindex"

// freeNode is one free range, indexed simultaneously by address and by
// size. The two rangeindex.Entry values share this node as their Value
// so either index can be walked back to the other.
type freeNode struct {
	base, size uintptr
	addrEntry  *rangeindex.Entry
	sizeEntry  *rangeindex.Entry
}

// freePool is the free-address and free-size index pair from spec.md
// §4.C, plus the coalescing logic §4.D's release algorithm requires.
type freePool struct {
	byAddr *rangeindex.Tree
	bySize *rangeindex.Tree
}

func newFreePool() *freePool {
	return &freePool{
		byAddr: rangeindex.New(rangeindex.ByBase),
		bySize: rangeindex.New(rangeindex.BySize),
	}
}

// insert adds [base, base+size) to the free pool, coalescing with an
// immediately adjacent free range on either side first.
func (p *freePool) insert(base, size uintptr) {
	if lower := p.byAddr.FindLargestLE(base); lower != nil {
		ln := lower.Value.(*freeNode)
		if ln.base+ln.size == base {
			p.remove(ln)
			base = ln.base
			size += ln.size
		}
	}

	if upper := p.byAddr.FindSmallestGE(base); upper != nil {
		un := upper.Value.(*freeNode)
		if un.base == base+size {
			p.remove(un)
			size += un.size
		}
	}

	n := &freeNode{base: base, size: size}
	n.addrEntry = &rangeindex.Entry{Base: base, Size: size, Value: n}
	n.sizeEntry = &rangeindex.Entry{Base: base, Size: size, Value: n}
	p.byAddr.Insert(n.addrEntry)
	p.bySize.Insert(n.sizeEntry)
}

func (p *freePool) remove(n *freeNode) {
	p.byAddr.Remove(n.addrEntry)
	p.bySize.Remove(n.sizeEntry)
}

// bestFit returns the smallest free range with size >= want, or (0, 0,
// false) if none exists. Ties among equal-size ranges are broken by
// whichever the size tree's in-order walk reaches first; spec.md §4.D
// asks for lowest-address tie-break, which this simplified pool does not
// guarantee among equal-size candidates (see DESIGN.md).
func (p *freePool) bestFit(want uintptr) (base, size uintptr, ok bool) {
	e := p.bySize.FindSmallestGE(want)
	if e == nil {
		return 0, 0, false
	}

	return e.Base, e.Size, true
}

// removeExact removes the free range starting at base (panics if absent;
// callers only call this right after bestFit/insert located the node).
func (p *freePool) removeExact(base uintptr) (*freeNode, bool) {
	e := p.byAddr.FindContaining(base)
	if e == nil || e.Base != base {
		return nil, false
	}

	n := e.Value.(*freeNode)
	p.remove(n)

	return n, true
}

func (p *freePool) len() int { return p.byAddr.Len() }
