package consensus

import (
	"reflect"
	"testing"
)

// Four points on a line at 0, 1, 5, 7 give an unambiguous merge order:
// {0,1} at height 1, {2,3} at height 2, then everything.
func lineDistMatrix() []float64 {
	data := []float64{0, 1, 5, 7}
	return ComputePairwiseDistances(data, 4, 1, EuclideanMetric{})
}

func TestBuildDendrogram_AverageLinkage_HandComputed(t *testing.T) {
	dend := buildDendrogram(lineDistMatrix(), 4, AverageLinkage{})
	if len(dend) != 3 {
		t.Fatalf("expected 3 merges, got %d", len(dend))
	}

	// Merge heights: 1, 2, then avg of cross distances:
	// d({0,1},{2,3}) = (5+7+4+6)/4 = 5.5
	want := [][4]float64{
		{0, 1, 1, 2},
		{2, 3, 2, 2},
		{4, 5, 5.5, 4},
	}
	for m := range want {
		for c := range want[m] {
			if !almostEqual(dend[m][c], want[m][c], floatTol) {
				t.Errorf("merge %d field %d: expected %v, got %v", m, c, want[m][c], dend[m][c])
			}
		}
	}
}

func TestBuildDendrogram_SingleLinkage_HandComputed(t *testing.T) {
	dend := buildDendrogram(lineDistMatrix(), 4, SingleLinkage{})
	// Single linkage joins {0,1} and {2,3} at min cross distance 4 (points 1 and 2).
	if !almostEqual(dend[2][2], 4.0, floatTol) {
		t.Errorf("expected final merge height 4, got %v", dend[2][2])
	}
}

func TestBuildDendrogram_CompleteLinkage_HandComputed(t *testing.T) {
	dend := buildDendrogram(lineDistMatrix(), 4, CompleteLinkage{})
	// Complete linkage joins {0,1} and {2,3} at max cross distance 7 (points 0 and 3).
	if !almostEqual(dend[2][2], 7.0, floatTol) {
		t.Errorf("expected final merge height 7, got %v", dend[2][2])
	}
}

func TestBuildDendrogram_HeightsNonDecreasing(t *testing.T) {
	data := []float64{
		0.1, 0.2,
		0.3, 0.1,
		5.0, 5.1,
		5.2, 4.9,
		10.0, 0.0,
		10.1, 0.2,
		2.5, 2.5,
	}
	n, dims := 7, 2
	for name, link := range map[string]Linkage{
		"average":  AverageLinkage{},
		"single":   SingleLinkage{},
		"complete": CompleteLinkage{},
		"ward":     WardLinkage{},
	} {
		dist := ComputePairwiseDistances(data, n, dims, EuclideanMetric{})
		dend := buildDendrogram(dist, n, link)
		if len(dend) != n-1 {
			t.Fatalf("%s: expected %d merges, got %d", name, n-1, len(dend))
		}
		for m := 1; m < len(dend); m++ {
			if dend[m][2] < dend[m-1][2] {
				t.Errorf("%s: merge %d height %v below previous %v", name, m, dend[m][2], dend[m-1][2])
			}
		}
	}
}

func TestBuildDendrogram_FewerThanTwoPoints(t *testing.T) {
	if d := buildDendrogram(nil, 0, AverageLinkage{}); d != nil {
		t.Errorf("expected nil for n=0, got %v", d)
	}
	if d := buildDendrogram([]float64{0}, 1, AverageLinkage{}); d != nil {
		t.Errorf("expected nil for n=1, got %v", d)
	}
}

func TestCutTree_KnownPartitions(t *testing.T) {
	dend := buildDendrogram(lineDistMatrix(), 4, AverageLinkage{})

	tests := []struct {
		k    int
		want []int
	}{
		{1, []int{1, 1, 1, 1}},
		{2, []int{1, 1, 2, 2}},
		{3, []int{1, 1, 2, 3}},
		{4, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		got := cutTree(dend, 4, tt.k)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("k=%d: expected %v, got %v", tt.k, tt.want, got)
		}
	}
}

func TestCutTree_LabelsCoverRange(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	n := 10
	dist := ComputePairwiseDistances(data, n, 1, EuclideanMetric{})
	dend := buildDendrogram(dist, n, AverageLinkage{})

	for k := 1; k <= n; k++ {
		labels := cutTree(dend, n, k)
		seen := map[int]bool{}
		for i, l := range labels {
			if l < 1 || l > k {
				t.Fatalf("k=%d: label %d at row %d outside [1, %d]", k, l, i, k)
			}
			seen[l] = true
		}
		if len(seen) != k {
			t.Errorf("k=%d: expected %d distinct labels, got %d", k, k, len(seen))
		}
	}
}

func TestCutTree_Deterministic(t *testing.T) {
	dist := lineDistMatrix()
	a := cutTree(buildDendrogram(dist, 4, AverageLinkage{}), 4, 2)
	b := cutTree(buildDendrogram(dist, 4, AverageLinkage{}), 4, 2)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated cuts differ: %v vs %v", a, b)
	}
}
