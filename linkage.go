package consensus

import "math"

// Linkage defines how the dissimilarity between a freshly merged cluster and
// every other cluster is derived during agglomeration (the Lance-Williams
// update). Built-in: AverageLinkage, SingleLinkage, CompleteLinkage,
// WardLinkage.
//
// Update receives da = d(a, k) and db = d(b, k) for the two clusters a, b
// being merged and another cluster k, dab = d(a, b), and the cluster sizes
// na, nb, nk. It returns d(a∪b, k).
type Linkage interface {
	Update(da, db, dab float64, na, nb, nk int) float64
}

// AverageLinkage merges on the size-weighted mean of pairwise dissimilarities
// (UPGMA). This is the conventional default for consensus clustering.
type AverageLinkage struct{}

func (AverageLinkage) Update(da, db, _ float64, na, nb, _ int) float64 {
	return (float64(na)*da + float64(nb)*db) / float64(na+nb)
}

// SingleLinkage merges on the minimum pairwise dissimilarity.
type SingleLinkage struct{}

func (SingleLinkage) Update(da, db, _ float64, _, _, _ int) float64 {
	return math.Min(da, db)
}

// CompleteLinkage merges on the maximum pairwise dissimilarity.
type CompleteLinkage struct{}

func (CompleteLinkage) Update(da, db, _ float64, _, _, _ int) float64 {
	return math.Max(da, db)
}

// WardLinkage merges the pair yielding the smallest increase in total
// within-cluster variance. The update assumes the input dissimilarities are
// Euclidean.
type WardLinkage struct{}

func (WardLinkage) Update(da, db, dab float64, na, nb, nk int) float64 {
	t := float64(na + nb + nk)
	s := (float64(na+nk)*da*da + float64(nb+nk)*db*db - float64(nk)*dab*dab) / t
	return math.Sqrt(s)
}
