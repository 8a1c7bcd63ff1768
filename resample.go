package consensus

import (
	"math"
	"math/rand"
	"sort"
)

// resample describes one subsampling round: the selected row and column
// indices, sorted ascending. It is regenerated per repetition and never
// outlives the repetition loop.
type resample struct {
	rows []int
	cols []int
}

// drawResample draws rowSize row indices and colSize column indices without
// replacement. The two draws are independent of each other and advance rng
// in a fixed order, so a seeded generator reproduces the exact descriptor
// sequence.
func drawResample(rng *rand.Rand, nRows, nCols, rowSize, colSize int) resample {
	rows := append([]int(nil), rng.Perm(nRows)[:rowSize]...)
	cols := append([]int(nil), rng.Perm(nCols)[:colSize]...)
	sort.Ints(rows)
	sort.Ints(cols)
	return resample{rows: rows, cols: cols}
}

// gather extracts the sampled rows and columns of a flat row-major matrix
// into a new flat matrix of len(rows) x len(cols).
func gather(data []float64, dims int, rows, cols []int) []float64 {
	sub := make([]float64, len(rows)*len(cols))
	for i, r := range rows {
		base := r * dims
		for j, c := range cols {
			sub[i*len(cols)+j] = data[base+c]
		}
	}
	return sub
}

// sampleSize converts a subsampling proportion into a count of indices,
// rounding half away from zero.
func sampleSize(p float64, n int) int {
	return int(math.Round(p * float64(n)))
}
