package consensus

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ComputePairwiseDistancesParallel computes the full n*n distance matrix using
// multiple goroutines. data is flat row-major with n rows and dims columns.
// numWorkers controls the degree of parallelism; if <= 1, it falls back to
// single-threaded ComputePairwiseDistances.
//
// The result is bitwise identical to ComputePairwiseDistances: a flat []float64
// of length n*n in row-major order.
func ComputePairwiseDistancesParallel(data []float64, n, dims int, metric DistanceMetric, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return ComputePairwiseDistances(data, n, dims, metric)
	}

	result := make([]float64, n*n)

	// Split rows across workers. Each worker handles a contiguous range of
	// "source" rows and computes dist(i,j) for all j > i in that range.
	// Since row ranges don't overlap, no synchronization is needed for writes.
	var wg sync.WaitGroup

	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
					result[i*n+j] = d
					result[j*n+i] = d
				}
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return result
}

// clusterResamples clusters every pre-drawn resample at cluster count k,
// fanning the repetitions out over at most numWorkers goroutines. Results
// land in rep-indexed slices, so the caller can accumulate them in
// repetition order and the output is identical at any degree of
// parallelism. A repetition that cannot be clustered stores its error
// instead of labels.
func clusterResamples(ctx context.Context, data []float64, dims, k int, draws []resample, metric DistanceMetric, link Linkage, numWorkers int) ([][]int, []error) {
	labels := make([][]int, len(draws))
	errs := make([]error, len(draws))

	if numWorkers <= 1 {
		for r, rs := range draws {
			if ctx.Err() != nil {
				errs[r] = ctx.Err()
				continue
			}
			labels[r], errs[r] = clusterResample(data, dims, rs, k, metric, link)
		}
		return labels, errs
	}

	sem := semaphore.NewWeighted(int64(numWorkers))
	var wg sync.WaitGroup

	for r := range draws {
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[r] = err
			continue
		}
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			defer sem.Release(1)
			labels[r], errs[r] = clusterResample(data, dims, draws[r], k, metric, link)
		}(r)
	}

	wg.Wait()
	return labels, errs
}
