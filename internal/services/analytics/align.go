package analytics

// RightAlign trims the beginning of s so that it has length n, keeping the
// most recent observations. Series shorter than n are returned unchanged.
// This is the one alignment policy used system-wide: series are always
// anchored at their trailing end.
func RightAlign(s []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// MinLen returns the length of the shortest series, or 0 for no series.
func MinLen(series [][]float64) int {
	if len(series) == 0 {
		return 0
	}
	min := len(series[0])
	for _, s := range series[1:] {
		if len(s) < min {
			min = len(s)
		}
	}
	return min
}

// RightAlignAll right-aligns every series to n.
func RightAlignAll(series [][]float64, n int) [][]float64 {
	out := make([][]float64, len(series))
	for i, s := range series {
		out[i] = RightAlign(s, n)
	}
	return out
}
