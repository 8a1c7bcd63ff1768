package consensus

// unionFind implements a disjoint-set data structure with path compression
// and union by size, used to replay dendrogram merges when cutting a tree.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = -1 // -1 means "is a root"
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size}
}

// find returns the root of the set containing x, with path compression.
func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	// Path compression: point all nodes along the path directly to root.
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// union merges the sets containing x and y by attaching the smaller tree
// under the larger. Returns the new root.
func (uf *unionFind) union(x, y int) int {
	rootX := uf.find(x)
	rootY := uf.find(y)
	if rootX == rootY {
		return rootX
	}

	if uf.size[rootX] < uf.size[rootY] {
		rootX, rootY = rootY, rootX
	}
	uf.parent[rootY] = rootX
	uf.size[rootX] += uf.size[rootY]
	return rootX
}
