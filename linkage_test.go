package consensus

import (
	"math"
	"testing"
)

func TestAverageLinkage_SizeWeightedMean(t *testing.T) {
	l := AverageLinkage{}
	// Cluster a (size 2) at distance 4, cluster b (size 1) at distance 7:
	// (2*4 + 1*7) / 3 = 5
	got := l.Update(4, 7, 0, 2, 1, 3)
	if !almostEqual(got, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", got)
	}
}

func TestAverageLinkage_EqualSizes(t *testing.T) {
	l := AverageLinkage{}
	got := l.Update(2, 6, 0, 1, 1, 1)
	if !almostEqual(got, 4.0, floatTol) {
		t.Errorf("expected 4.0, got %v", got)
	}
}

func TestSingleLinkage_Min(t *testing.T) {
	l := SingleLinkage{}
	if got := l.Update(4, 7, 0, 2, 1, 3); got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
}

func TestCompleteLinkage_Max(t *testing.T) {
	l := CompleteLinkage{}
	if got := l.Update(4, 7, 0, 2, 1, 3); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestWardLinkage_SingletonMerge(t *testing.T) {
	l := WardLinkage{}
	// Three singleton points: a and b merge at dab, the distance to k follows
	// sqrt((2*da^2 + 2*db^2 - dab^2) / 3).
	da, db, dab := 3.0, 4.0, 2.0
	want := math.Sqrt((2*da*da + 2*db*db - dab*dab) / 3)
	got := l.Update(da, db, dab, 1, 1, 1)
	if !almostEqual(got, want, floatTol) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWardLinkage_NonNegative(t *testing.T) {
	l := WardLinkage{}
	got := l.Update(1, 1, 1, 5, 5, 5)
	if got < 0 || math.IsNaN(got) {
		t.Errorf("expected non-negative update, got %v", got)
	}
}
