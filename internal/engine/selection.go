package engine

import "mix-service/pkg/mix"

type weightedQuestion struct {
	question *mix.Question
	weight   float64
}

// pickQuestion chooses a question for the card at its current level,
// avoiding repeats until the level's pool is exhausted and weighting
// previously missed questions for earlier re-asking. Falls back to the whole
// card pool when no questions exist at the card's level.
func (e *Engine) pickQuestion(state *mix.FlashcardState, card *mix.Flashcard) *mix.Question {
	pool := card.QuestionsAtLevel(state.Level)
	if len(pool) == 0 {
		pool = card.Questions
	}
	if len(pool) == 0 {
		return nil
	}

	served := make(map[string]bool, len(state.ServedHashes))
	for _, h := range state.ServedHashes {
		served[h] = true
	}

	var fresh []mix.Question
	for i := range pool {
		if !served[pool[i].QuestionHash] {
			fresh = append(fresh, pool[i])
		}
	}
	if len(fresh) == 0 {
		// Pool exhausted for this card: forget its served markers and
		// start the pool over.
		poolHashes := make(map[string]bool, len(pool))
		for i := range pool {
			poolHashes[pool[i].QuestionHash] = true
		}
		var kept []string
		for _, h := range state.ServedHashes {
			if !poolHashes[h] {
				kept = append(kept, h)
			}
		}
		state.ServedHashes = kept
		fresh = pool
	}

	candidates := make([]weightedQuestion, len(fresh))
	for i := range fresh {
		weight := 1.0
		if containsString(state.WrongHashes, fresh[i].QuestionHash) {
			weight = e.config.MissedWeight
		}
		candidates[i] = weightedQuestion{question: &fresh[i], weight: weight}
	}

	chosen := e.weightedRandomSelect(candidates)
	state.ServedHashes = append(state.ServedHashes, chosen.QuestionHash)
	return chosen
}

func (e *Engine) weightedRandomSelect(candidates []weightedQuestion) *mix.Question {
	if len(candidates) == 1 {
		return candidates[0].question
	}

	totalWeight := 0.0
	for _, c := range candidates {
		totalWeight += c.weight
	}
	if totalWeight == 0 {
		return candidates[e.rand.Intn(len(candidates))].question
	}

	r := e.rand.Float64() * totalWeight
	cumulative := 0.0
	for _, c := range candidates {
		cumulative += c.weight
		if r <= cumulative {
			return c.question
		}
	}
	return candidates[len(candidates)-1].question
}
