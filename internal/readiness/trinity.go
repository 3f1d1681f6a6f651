// Package readiness scores a learner's exam preparedness from the attempt
// log. It provides two deliberately distinct metrics: the blended
// deck-readiness score and the accuracy-only per-lecture scores. The two are
// never mixed.
package readiness

import "mix-service/pkg/mix"

// Deck readiness blends three factors. Accuracy carries the most weight,
// coverage rewards touching the whole deck, and momentum emphasizes recent
// performance.
const (
	accuracyWeight = 0.5
	coverageWeight = 0.3
	momentumWeight = 0.2

	// momentumWindow is how many recent graded attempts feed the momentum
	// factor.
	momentumWindow = 10
)

// ComputeDeckScore produces the blended score for one deck selection.
// Attempts must be in chronological order. Revealed attempts count toward
// coverage but not accuracy or momentum.
func ComputeDeckScore(attempts []mix.Attempt, totalCards int64) mix.ReadinessScore {
	coverage := coverageFactor(attempts, totalCards)
	accuracy := accuracyFactor(attempts)
	momentum := momentumFactor(attempts)

	overall := 100 * (accuracyWeight*accuracy + coverageWeight*coverage + momentumWeight*momentum)

	return mix.ReadinessScore{
		OverallReadinessScore: clampRange(overall, 0, 100),
		CoverageFactor:        coverage,
		AccuracyFactor:        accuracy,
		MomentumFactor:        momentum,
	}
}

func coverageFactor(attempts []mix.Attempt, totalCards int64) float64 {
	if totalCards <= 0 {
		return 0
	}
	seen := make(map[string]bool)
	for _, a := range attempts {
		seen[a.FlashcardID] = true
	}
	return clamp01(float64(len(seen)) / float64(totalCards))
}

func accuracyFactor(attempts []mix.Attempt) float64 {
	correct, graded := 0, 0
	for _, a := range attempts {
		if a.Revealed {
			continue
		}
		graded++
		if a.IsCorrect {
			correct++
		}
	}
	if graded == 0 {
		return 0
	}
	return clamp01(float64(correct) / float64(graded))
}

// momentumFactor is the accuracy over the most recent graded attempts, so a
// learner trending upward scores above their all-time accuracy.
func momentumFactor(attempts []mix.Attempt) float64 {
	var outcomes []bool
	for _, a := range attempts {
		if !a.Revealed {
			outcomes = append(outcomes, a.IsCorrect)
		}
	}
	if len(outcomes) == 0 {
		return 0
	}
	if len(outcomes) > momentumWindow {
		outcomes = outcomes[len(outcomes)-momentumWindow:]
	}
	correct := 0
	for _, ok := range outcomes {
		if ok {
			correct++
		}
	}
	return clamp01(float64(correct) / float64(len(outcomes)))
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
