package consensus

import "math"

// buildDendrogram performs agglomerative hierarchical clustering over a flat
// n*n dissimilarity matrix and returns the dendrogram in scipy format: each
// row is [left, right, height, mergedSize]. Merged cluster IDs start at n
// and increment in merge order, matching scipy's linkage output.
//
// The merge loop scans for the closest active pair in index order, so ties
// resolve deterministically. Dissimilarities between the merged cluster and
// the remaining clusters are rewritten in place via the Lance-Williams
// update of the configured Linkage.
func buildDendrogram(dist []float64, n int, link Linkage) [][4]float64 {
	if n < 2 {
		return nil
	}

	d := make([]float64, n*n)
	copy(d, dist)

	active := make([]bool, n)
	id := make([]int, n)   // current dendrogram cluster ID occupying slot i
	size := make([]int, n) // size of the cluster occupying slot i
	for i := 0; i < n; i++ {
		active[i] = true
		id[i] = i
		size[i] = 1
	}

	dend := make([][4]float64, 0, n-1)
	next := n

	for m := 0; m < n-1; m++ {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if d[i*n+j] < best {
					best = d[i*n+j]
					bi, bj = i, j
				}
			}
		}

		dend = append(dend, [4]float64{
			float64(id[bi]), float64(id[bj]), best, float64(size[bi] + size[bj]),
		})

		// The merged cluster takes over slot bi; slot bj retires.
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			nd := link.Update(d[bi*n+k], d[bj*n+k], best, size[bi], size[bj], size[k])
			d[bi*n+k] = nd
			d[k*n+bi] = nd
		}
		active[bj] = false
		size[bi] += size[bj]
		id[bi] = next
		next++
	}

	return dend
}

// cutTree cuts a dendrogram over n leaves into exactly k groups by replaying
// the first n-k merges, and returns labels in [1, k]. Labels are assigned in
// order of first appearance by row index, so the labeling is deterministic.
// k == n yields the singleton partition. Callers must ensure 1 <= k <= n.
func cutTree(dend [][4]float64, n, k int) []int {
	labels := make([]int, n)
	if k >= n {
		for i := range labels {
			labels[i] = i + 1
		}
		return labels
	}

	// rep maps a dendrogram cluster ID to one of its member rows.
	rep := make([]int, n+len(dend))
	for i := 0; i < n; i++ {
		rep[i] = i
	}

	uf := newUnionFind(n)
	for m := 0; m < n-k; m++ {
		left := int(dend[m][0])
		right := int(dend[m][1])
		rep[n+m] = uf.union(rep[left], rep[right])
	}

	next := 0
	labelOf := make(map[int]int, k)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		label, ok := labelOf[root]
		if !ok {
			next++
			label = next
			labelOf[root] = label
		}
		labels[i] = label
	}
	return labels
}
