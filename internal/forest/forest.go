// Package forest implements a disjoint-set forest over integer handles.
//
// Nodes live in a parent arena: a node whose parent is itself is the root
// of its set. Lookups compress paths in place; merges are directional and
// unbalanced, so Merge(a, b) always keeps the root of a.
package forest

// Handle identifies a node in a Forest.
type Handle int

// Forest is a union-find structure. It is not safe for concurrent use.
type Forest struct {
	parent []Handle
}

// New returns a forest holding n singleton sets with handles 0..n-1.
func New(n int) *Forest {
	if n < 0 {
		n = 0
	}
	f := &Forest{parent: make([]Handle, n)}
	for i := range f.parent {
		f.parent[i] = Handle(i)
	}
	return f
}

// Make adds a new singleton set and returns its handle.
func (f *Forest) Make() Handle {
	h := Handle(len(f.parent))
	f.parent = append(f.parent, h)
	return h
}

// Len reports the number of nodes in the forest.
func (f *Forest) Len() int { return len(f.parent) }

// Root returns the root of h's set, pointing every node on the way at it.
func (f *Forest) Root(h Handle) Handle {
	root := h
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for f.parent[h] != root {
		next := f.parent[h]
		f.parent[h] = root
		h = next
	}
	return root
}

// Same reports whether a and b belong to the same set.
func (f *Forest) Same(a, b Handle) bool {
	return f.Root(a) == f.Root(b)
}

// Merge joins the sets of a and b, making the root of a the parent of the
// root of b. Merging handles already in one set is a no-op.
func (f *Forest) Merge(a, b Handle) {
	ra, rb := f.Root(a), f.Root(b)
	if ra == rb {
		return
	}
	f.parent[rb] = ra
}

// Sets counts the disjoint sets currently in the forest.
func (f *Forest) Sets() int {
	n := 0
	for i, p := range f.parent {
		if Handle(i) == p {
			n++
		}
	}
	return n
}
