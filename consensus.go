package consensus

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// Config controls the consensus clustering run.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// MaxK is the largest candidate cluster count. The engine evaluates every
	// k in [2, MaxK]. Must be >= 2 and <= the number of rows. Default: 6.
	MaxK int

	// Reps is the number of resampling repetitions per candidate k.
	// More repetitions give smoother consensus estimates. Must be >= 1.
	// Default: 100.
	Reps int

	// PRows is the proportion of rows drawn in each resample, in (0, 1].
	// The derived subsample must contain at least 2 rows. Default: 0.8.
	PRows float64

	// PCols is the proportion of columns drawn in each resample, in (0, 1].
	// The derived subsample must contain at least 1 column. Default: 1.0.
	PCols float64

	// Metric is the dissimilarity measure between rows. Built-in:
	// EuclideanMetric, ManhattanMetric, ChebyshevMetric, CosineMetric,
	// PearsonMetric, MinkowskiMetric. Use DistanceFunc to wrap a custom
	// function. Default: EuclideanMetric.
	Metric DistanceMetric

	// Linkage is the agglomeration rule for hierarchical clustering.
	// Built-in: AverageLinkage, SingleLinkage, CompleteLinkage, WardLinkage.
	// Default: AverageLinkage.
	Linkage Linkage

	// Seed drives the deterministic resampling sequence. Two runs with the
	// same input, configuration, and seed produce identical results at any
	// Workers setting.
	Seed int64

	// Workers controls the number of goroutines used for the repetition loop
	// and full-matrix pairwise distances. 0 means use runtime.NumCPU().
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MaxK:    6,
		Reps:    100,
		PRows:   0.8,
		PCols:   1.0,
		Metric:  EuclideanMetric{},
		Linkage: AverageLinkage{},
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Linkage == nil {
		cfg.Linkage = AverageLinkage{}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.MaxK < 2 {
		return fmt.Errorf("consensus: MaxK must be >= 2, got %d: %w", cfg.MaxK, ErrInvalidParameter)
	}
	if cfg.Reps < 1 {
		return fmt.Errorf("consensus: Reps must be >= 1, got %d: %w", cfg.Reps, ErrInvalidParameter)
	}
	if cfg.PRows <= 0 || cfg.PRows > 1 {
		return fmt.Errorf("consensus: PRows must be in (0, 1], got %f: %w", cfg.PRows, ErrInvalidParameter)
	}
	if cfg.PCols <= 0 || cfg.PCols > 1 {
		return fmt.Errorf("consensus: PCols must be in (0, 1], got %f: %w", cfg.PCols, ErrInvalidParameter)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("consensus: Workers must be >= 0, got %d: %w", cfg.Workers, ErrInvalidParameter)
	}
	return nil
}

// validateMatrix checks the input matrix and returns its dimensions.
func validateMatrix(data [][]float64) (n, dims int, err error) {
	n = len(data)
	if n < 2 {
		return 0, 0, fmt.Errorf("consensus: need at least 2 rows, got %d: %w", n, ErrInvalidInput)
	}
	dims = len(data[0])
	if dims < 1 {
		return 0, 0, fmt.Errorf("consensus: need at least 1 column, got %d: %w", dims, ErrInvalidInput)
	}
	for i, row := range data {
		if len(row) != dims {
			return 0, 0, fmt.Errorf("consensus: row %d has %d columns, want %d: %w", i, len(row), dims, ErrInvalidInput)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, fmt.Errorf("consensus: non-finite value at (%d, %d): %w", i, j, ErrInvalidInput)
			}
		}
	}
	return n, dims, nil
}

// KResult is the outcome for one candidate cluster count.
type KResult struct {
	// K is the candidate cluster count this record describes.
	K int

	// Labels assigns each row of the full input matrix to a cluster in
	// [1, K], from one hierarchical clustering of the complete (unsampled)
	// matrix cut at K.
	Labels []int

	// Consensus is the n x n symmetric matrix of co-clustering frequencies:
	// entry (i, j) is the fraction of repetitions that placed rows i and j in
	// the same cluster, among those that sampled both. Entries for pairs
	// never jointly sampled are NaN. The diagonal is 1.
	Consensus *mat.SymDense

	// ECDF is the empirical distribution of the defined upper-triangular
	// consensus values.
	ECDF *ECDF

	// Delta is the stability change versus k-1: the normalized absolute area
	// between this ECDF and the previous k's. NaN for K == 2, where there is
	// no previous distribution.
	Delta float64

	// Summary holds distribution statistics of the defined consensus values.
	Summary Summary

	// ClusterConsensus is the mean within-cluster consensus per final
	// cluster, indexed by label-1.
	ClusterConsensus []float64

	// SkippedReps counts repetitions excluded from accumulation, either
	// because the resample produced undefined dissimilarities or because it
	// drew fewer rows than K.
	SkippedReps int
}

// Result bundles the per-k outcomes of one engine run, ordered k = 2..MaxK.
type Result struct {
	Results []KResult
}

// SuggestedK returns the candidate k with the largest stability delta, the
// conventional elbow signal for picking a final cluster count. Returns 2
// when no delta is defined (MaxK == 2 or empty distributions).
func (r *Result) SuggestedK() int {
	bestK := 2
	best := math.Inf(-1)
	for _, kr := range r.Results {
		if kr.K < 3 || math.IsNaN(kr.Delta) {
			continue
		}
		if kr.Delta > best {
			best = kr.Delta
			bestK = kr.K
		}
	}
	return bestK
}

// Run performs consensus clustering on the given data. Each element of data
// is one observation row; all rows must have the same number of columns.
// For every candidate k in [2, cfg.MaxK] it repeatedly subsamples rows and
// columns, clusters the subsample hierarchically, accumulates how often row
// pairs co-cluster, and derives the consensus matrix and its stability
// statistics. Returns an error if the config or input is invalid.
func Run(data [][]float64, cfg Config) (*Result, error) {
	return RunContext(context.Background(), data, cfg)
}

// RunContext is Run with cancellation. Cancelling ctx aborts the run between
// repetitions; no partially accumulated candidate k is reported.
func RunContext(ctx context.Context, data [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	n, dims, err := validateMatrix(data)
	if err != nil {
		return nil, err
	}
	if cfg.MaxK > n {
		return nil, fmt.Errorf("consensus: MaxK %d exceeds row count %d: %w", cfg.MaxK, n, ErrInvalidParameter)
	}

	rowSize := sampleSize(cfg.PRows, n)
	colSize := sampleSize(cfg.PCols, dims)
	if rowSize < 2 {
		return nil, fmt.Errorf("consensus: PRows %f of %d rows yields %d sampled rows, need >= 2: %w", cfg.PRows, n, rowSize, ErrInvalidParameter)
	}
	if colSize < 1 {
		return nil, fmt.Errorf("consensus: PCols %f of %d columns yields %d sampled columns, need >= 1: %w", cfg.PCols, dims, colSize, ErrInvalidParameter)
	}

	flat := make([]float64, n*dims)
	for i, row := range data {
		copy(flat[i*dims:], row)
	}

	// One hierarchical clustering of the complete matrix serves every k:
	// the clusterer is deterministic, so cutting the same dendrogram at k is
	// equivalent to clustering the full matrix per k.
	fullDist := ComputePairwiseDistancesParallel(flat, n, dims, cfg.Metric, cfg.Workers)
	if hasUndefined(fullDist) {
		return nil, fmt.Errorf("consensus: %T over the full matrix produced undefined dissimilarities: %w", cfg.Metric, ErrInvalidInput)
	}
	fullDend := buildDendrogram(fullDist, n, cfg.Linkage)

	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]KResult, 0, cfg.MaxK-1)
	var prev *ECDF

	for k := 2; k <= cfg.MaxK; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Descriptors are drawn sequentially from the single seeded rng
		// before any parallel work, so the resample sequence is independent
		// of Workers.
		draws := make([]resample, cfg.Reps)
		for r := range draws {
			draws[r] = drawResample(rng, n, dims, rowSize, colSize)
		}

		labels, errs := clusterResamples(ctx, flat, dims, k, draws, cfg.Metric, cfg.Linkage, cfg.Workers)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		acc := newAccumulator(n)
		skipped := 0
		for r := range draws {
			if errs[r] != nil {
				skipped++
				continue
			}
			acc.accumulate(draws[r].rows, labels[r])
		}

		consensus := acc.finalize()
		ecdf := newECDF(consensus)

		kr := KResult{
			K:           k,
			Labels:      cutTree(fullDend, n, k),
			Consensus:   consensus,
			ECDF:        ecdf,
			Delta:       math.NaN(),
			Summary:     summarize(ecdf),
			SkippedReps: skipped,
		}
		kr.ClusterConsensus = clusterConsensus(consensus, kr.Labels, k)
		if prev != nil {
			kr.Delta = deltaArea(prev, ecdf)
		}
		prev = ecdf

		results = append(results, kr)
	}

	return &Result{Results: results}, nil
}

// clusterResample clusters one resampled submatrix into k groups and returns
// the assignment aligned with rs.rows. Repetition-level failures come back
// as ErrInvalidParameter (k exceeds the subsample) or ErrDegenerateResample
// (undefined dissimilarities); the caller skips and counts them.
func clusterResample(data []float64, dims int, rs resample, k int, metric DistanceMetric, link Linkage) ([]int, error) {
	m := len(rs.rows)
	if k > m {
		return nil, fmt.Errorf("consensus: k=%d exceeds %d sampled rows: %w", k, m, ErrInvalidParameter)
	}

	sub := gather(data, dims, rs.rows, rs.cols)
	dist := ComputePairwiseDistances(sub, m, len(rs.cols), metric)
	if hasUndefined(dist) {
		return nil, fmt.Errorf("consensus: resample produced undefined dissimilarities: %w", ErrDegenerateResample)
	}

	dend := buildDendrogram(dist, m, link)
	return cutTree(dend, m, k), nil
}
