package mix

// ReadinessScore is the deck-readiness blend. The factors are each in [0,1]
// and the overall score in [0,100]. Clients treat the blend as opaque; only
// the ranges are contractual. This is a different metric from the per-lecture
// accuracy scores and the two are never mixed.
type ReadinessScore struct {
	OverallReadinessScore float64 `json:"overall_readiness_score"`
	CoverageFactor        float64 `json:"coverage_factor"`
	AccuracyFactor        float64 `json:"accuracy_factor"`
	MomentumFactor        float64 `json:"momentum_factor"`
}

// DeckReadinessRequest asks for the blended score over one deck selection.
// ForceRefresh bypasses the server-side cache read and recomputes.
type DeckReadinessRequest struct {
	CourseID     string   `json:"course_id" binding:"required"`
	DeckIDs      []string `json:"deck_ids" binding:"required"`
	ForceRefresh bool     `json:"force_refresh"`
}
