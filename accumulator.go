package consensus

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// accumulator tracks, for one candidate k, how often each row pair was
// jointly sampled and how often a jointly sampled pair landed in the same
// cluster. Counts cover the condensed upper triangle of the full row index
// space and only ever increase.
type accumulator struct {
	n     int
	pair  []int // co-occurrence counts
	joint []int // co-cluster counts
}

func newAccumulator(n int) *accumulator {
	m := n * (n - 1) / 2
	return &accumulator{
		n:     n,
		pair:  make([]int, m),
		joint: make([]int, m),
	}
}

// pairIndex maps (i, j) with i < j to its condensed upper-triangle offset.
func pairIndex(i, j, n int) int {
	return i*n - i*(i+1)/2 + j - i - 1
}

// accumulate records one repetition: rows are the sampled row indices
// (sorted ascending) and labels the cluster assignment aligned with rows.
func (a *accumulator) accumulate(rows, labels []int) {
	for x := 0; x < len(rows); x++ {
		for y := x + 1; y < len(rows); y++ {
			idx := pairIndex(rows[x], rows[y], a.n)
			a.pair[idx]++
			if labels[x] == labels[y] {
				a.joint[idx]++
			}
		}
	}
}

// finalize builds the consensus matrix: the elementwise ratio of co-cluster
// to co-occurrence counts, NaN where a pair was never jointly sampled, 1 on
// the diagonal. It is a pure read; calling it twice without further
// accumulation returns identical matrices.
func (a *accumulator) finalize() *mat.SymDense {
	m := mat.NewSymDense(a.n, nil)
	for i := 0; i < a.n; i++ {
		m.SetSym(i, i, 1)
		for j := i + 1; j < a.n; j++ {
			idx := pairIndex(i, j, a.n)
			if a.pair[idx] == 0 {
				m.SetSym(i, j, math.NaN())
				continue
			}
			m.SetSym(i, j, float64(a.joint[idx])/float64(a.pair[idx]))
		}
	}
	return m
}
