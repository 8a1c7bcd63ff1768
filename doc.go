// Package consensus implements consensus clustering for choosing a cluster
// count: it measures how stable a hierarchical clustering of multivariate
// observations is across resampled subsets of the data.
//
// For every candidate cluster count k in [2, MaxK], the engine repeatedly
// draws a random subset of rows and columns, clusters the subsample with
// agglomerative hierarchical clustering cut at k, and records for each row
// pair how often it was jointly sampled and how often it landed in the same
// cluster. The ratio of the two is the consensus matrix for that k. The
// empirical distribution (ECDF) of its entries, and the change in that
// distribution between successive k, locate the elbow in cluster stability
// used to pick a final k.
//
// Basic usage:
//
//	cfg := consensus.DefaultConfig()
//	cfg.MaxK = 8
//	cfg.Seed = 42
//	result, err := consensus.Run(data, cfg)
//	// result.Results[i] holds consensus matrix, full-data labels, ECDF and
//	// stability delta for k = i+2
//	// result.SuggestedK() is the k with the largest stability delta
//
// Runs are deterministic: the same data, configuration, and seed produce
// identical results regardless of the Workers setting. Per-repetition
// degeneracies (a resample with undefined dissimilarities, or fewer sampled
// rows than k) are skipped and counted in KResult.SkippedReps rather than
// failing the run.
package consensus
