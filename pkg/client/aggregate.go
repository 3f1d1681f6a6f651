package client

// AggregateLectureScores returns the overall value for the readiness ring:
// the arithmetic mean of the per-lecture scores. The ring deliberately does
// not use the Trinity blend; per-lecture scores are plain accuracy and the
// two metrics must not be conflated.
func AggregateLectureScores(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, score := range scores {
		sum += score
	}
	return sum / float64(len(scores))
}
