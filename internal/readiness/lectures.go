package readiness

import "mix-service/pkg/mix"

// LectureScores computes the accuracy-only percentage per requested lecture.
// Every requested lecture appears in the result; lectures with no graded
// attempts score zero. Revealed attempts are excluded. This is not the
// deck-readiness blend.
func LectureScores(lectureIDs []string, attempts []mix.Attempt) map[string]float64 {
	type tally struct {
		correct int
		total   int
	}
	counts := make(map[string]*tally, len(lectureIDs))
	scores := make(map[string]float64, len(lectureIDs))
	for _, id := range lectureIDs {
		counts[id] = &tally{}
		scores[id] = 0
	}

	for _, a := range attempts {
		if a.Revealed {
			continue
		}
		t, ok := counts[a.LectureID]
		if !ok {
			continue
		}
		t.total++
		if a.IsCorrect {
			t.correct++
		}
	}

	for id, t := range counts {
		if t.total > 0 {
			scores[id] = 100 * float64(t.correct) / float64(t.total)
		}
	}
	return scores
}
