package detect

// Edges scans indices 0..n-1 once and counts transitions from normal into
// anomalous. Consecutive anomalous indices form one stretch, reported once
// through emit with inclusive bounds when the stretch closes: on the first
// normal index after it, or at the end of the scan. emit may be nil.
//
// anomalous is called exactly once per index, in increasing order.
func Edges(n int, anomalous func(i int) bool, emit func(start, end int)) int {
	var (
		count     int
		inAnomaly bool
		start     int
	)
	for i := 0; i < n; i++ {
		if anomalous(i) {
			if !inAnomaly {
				inAnomaly = true
				start = i
				count++
			}
			continue
		}
		if inAnomaly {
			inAnomaly = false
			if emit != nil {
				emit(start, i-1)
			}
		}
	}
	if inAnomaly && emit != nil {
		emit(start, n-1)
	}
	return count
}
