package consensus

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ECDF is the empirical cumulative distribution of the defined
// upper-triangular consensus values for one candidate k: a non-decreasing
// step function from [0,1] to [0,1]. A flat distribution concentrated near
// 0 and 1 indicates a stable clustering; mass in the middle indicates
// ambiguous pairs.
type ECDF struct {
	values []float64 // sorted ascending, all in [0, 1]
}

// newECDF collects the defined (co-occurrence > 0) upper-triangular entries
// of a consensus matrix.
func newECDF(consensus *mat.SymDense) *ECDF {
	n := consensus.SymmetricDim()
	values := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v := consensus.At(i, j); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	sort.Float64s(values)
	return &ECDF{values: values}
}

// Len returns the number of defined consensus values underlying the ECDF.
func (e *ECDF) Len() int { return len(e.values) }

// Eval returns the fraction of observed consensus values <= q.
// Returns NaN when no values are defined.
func (e *ECDF) Eval(q float64) float64 {
	if len(e.values) == 0 {
		return math.NaN()
	}
	return stat.CDF(q, stat.Empirical, e.values, nil)
}

// Breakpoints returns a copy of the sorted observed values, the points at
// which the step function jumps. Plot renderers consume these directly.
func (e *ECDF) Breakpoints() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

// Area computes the area under the step function over [0, 1].
func (e *ECDF) Area() float64 {
	n := len(e.values)
	if n == 0 {
		return math.NaN()
	}
	var area float64
	for i := 0; i < n; {
		x := e.values[i]
		j := i
		for j+1 < n && e.values[j+1] == x {
			j++
		}
		next := 1.0
		if j+1 < n {
			next = e.values[j+1]
		}
		area += float64(j+1) / float64(n) * (next - x)
		i = j + 1
	}
	return area
}

// deltaArea summarizes the change between the consensus ECDFs of two
// consecutive k as the absolute area between the step functions over [0,1],
// taken at the union of their breakpoints and normalized by the area under
// the lower-k curve. When that area is zero (every lower-k consensus value
// is 1), the raw area is returned instead.
func deltaArea(prev, cur *ECDF) float64 {
	if prev.Len() == 0 || cur.Len() == 0 {
		return math.NaN()
	}

	breaks := mergeBreakpoints(prev.values, cur.values)
	var area float64
	for idx, x := range breaks {
		next := 1.0
		if idx+1 < len(breaks) {
			next = breaks[idx+1]
		}
		area += math.Abs(prev.Eval(x)-cur.Eval(x)) * (next - x)
	}

	base := prev.Area()
	if base == 0 {
		return area
	}
	return area / base
}

// mergeBreakpoints returns the sorted union of two sorted breakpoint sets,
// with 0 included so integration always starts at the left edge of [0,1].
func mergeBreakpoints(a, b []float64) []float64 {
	merged := make([]float64, 0, len(a)+len(b)+1)
	merged = append(merged, 0)
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.Float64s(merged)

	out := merged[:1]
	for _, v := range merged[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// Summary describes the distribution of defined consensus values for one k.
type Summary struct {
	Mean   float64
	Median float64
	Q25    float64
	Q75    float64
}

// summarize computes distribution statistics over the ECDF's values.
// Fields that cannot be computed (no defined values, or too few for a
// quartile) are NaN.
func summarize(e *ECDF) Summary {
	return Summary{
		Mean:   statOrNaN(stats.Mean(e.values)),
		Median: statOrNaN(stats.Median(e.values)),
		Q25:    statOrNaN(stats.Percentile(e.values, 25)),
		Q75:    statOrNaN(stats.Percentile(e.values, 75)),
	}
}

func statOrNaN(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}

// clusterConsensus computes, for each final cluster label 1..k, the mean
// consensus over its defined within-cluster pairs. Singleton clusters (no
// pairs) get NaN.
func clusterConsensus(consensus *mat.SymDense, labels []int, k int) []float64 {
	sums := make([]float64, k)
	counts := make([]int, k)

	n := consensus.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if labels[i] != labels[j] {
				continue
			}
			v := consensus.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			sums[labels[i]-1] += v
			counts[labels[i]-1]++
		}
	}

	out := make([]float64, k)
	for c := range out {
		if counts[c] == 0 {
			out[c] = math.NaN()
			continue
		}
		out[c] = sums[c] / float64(counts[c])
	}
	return out
}
