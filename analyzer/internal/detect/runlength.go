package detect

// Runs scans indices 0..n-1 once, tracking the length of the current run of
// consecutive indices for which match returns true. A run is closed by the
// first non-matching index or by the end of the scan; it counts only when
// its length is strictly greater than minimum. Each counted run is reported
// through emit with inclusive bounds. emit may be nil.
//
// With minimum 10, a run of exactly 10 is ignored and a run of 11 or more
// counts once.
func Runs(n int, match func(i int) bool, minimum int, emit func(start, end int)) int {
	var count, length int

	closeRun := func(end int) {
		if length > minimum {
			count++
			if emit != nil {
				emit(end-length+1, end)
			}
		}
		length = 0
	}

	for i := 0; i < n; i++ {
		if match(i) {
			length++
			continue
		}
		closeRun(i - 1)
	}
	closeRun(n - 1)
	return count
}
