package analytics

import "testing"

func TestRightAlign(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5}
	got := RightAlign(s, 2)
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("expected trailing [4 5], got %v", got)
	}
}

func TestRightAlignShorterThanTarget(t *testing.T) {
	s := []float64{1, 2}
	if got := RightAlign(s, 5); len(got) != 2 {
		t.Fatalf("short series must be returned unchanged, got %v", got)
	}
}

func TestMinLen(t *testing.T) {
	series := [][]float64{{1, 2, 3}, {1, 2}, {1, 2, 3, 4}}
	if got := MinLen(series); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := MinLen(nil); got != 0 {
		t.Fatalf("expected 0 for no series, got %d", got)
	}
}

func TestRightAlignAll(t *testing.T) {
	series := [][]float64{{1, 2, 3}, {4, 5}}
	aligned := RightAlignAll(series, 2)
	if aligned[0][0] != 2 || aligned[0][1] != 3 || aligned[1][0] != 4 {
		t.Fatalf("unexpected alignment: %v", aligned)
	}
}
