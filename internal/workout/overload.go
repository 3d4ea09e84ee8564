package workout

import "math"

// Cold-start policy for an exercise with no logged history.
const (
	coldStartWeightKg = 20
	coldStartReason   = "First session - start with a moderate weight"
)

// defaultRPE substitutes for sets logged without an RPE.
const defaultRPE = 7

// plateIncrementKg is the rounding step for suggested weights.
const plateIncrementKg = 2.5

// SuggestNextWeight computes a progressive-overload suggestion for the next
// occurrence of an exercise from its recent logged sessions, ordered
// most-recent-first. Only the most recent session informs the decision.
//
// A history whose most recent session has no sets is treated as no history at
// all, so the averages below never divide by zero.
//
// The suggested weight rounds to the nearest 2.5kg plate increment and the
// last weight to one decimal, both half-away-from-zero via math.Round.
func SuggestNextWeight(recentSessions [][]SessionSet) Suggestion {
	if len(recentSessions) == 0 || len(recentSessions[0]) == 0 {
		return Suggestion{
			SuggestedWeightKg: coldStartWeightKg,
			Reason:            coldStartReason,
			LastWeightKg:      0,
		}
	}

	lastSession := recentSessions[0]

	var weightSum, rpeSum float64
	successes := 0
	for _, set := range lastSession {
		weightSum += set.WeightKg
		rpe := defaultRPE
		if set.RPE != nil {
			rpe = *set.RPE
		}
		rpeSum += float64(rpe)
		if set.Success {
			successes++
		}
	}

	setCount := float64(len(lastSession))
	avgWeight := weightSum / setCount
	avgRPE := rpeSum / setCount
	successRate := float64(successes) / setCount

	suggested := avgWeight
	var reason string
	switch {
	case successRate >= 1.0 && avgRPE <= 7:
		suggested = avgWeight * 1.025
		reason = "All sets completed with low RPE - increase weight"
	case successRate >= 1.0 && avgRPE >= 8:
		suggested = avgWeight * 1.0125
		reason = "All sets completed but high RPE - small increase"
	case successRate < 0.5:
		suggested = avgWeight * 0.925
		reason = "Failed most sets - deload weight"
	default:
		reason = "Maintain current weight"
	}

	return Suggestion{
		SuggestedWeightKg: math.Round(suggested/plateIncrementKg) * plateIncrementKg,
		Reason:            reason,
		LastWeightKg:      math.Round(avgWeight*10) / 10,
	}
}
