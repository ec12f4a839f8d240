package scoring

import (
	"math"

	"quizarena/internal/domain"
)

const (
	// BasePoints is awarded for every correct answer.
	BasePoints = 100
	// BonusWindowSeconds is how long the speed bonus lasts.
	BonusWindowSeconds = 5
	// BonusPerSecond is the bonus for each second left in the window.
	BonusPerSecond = 20
	// FullAccuracy is the accuracy assumed when the caller has none.
	FullAccuracy = 1.0
)

// Score converts an evaluated answer into points. accuracy scales the base
// points of enumeration questions only and is clamped to [0, 1]. The result is
// truncated toward zero and never negative.
func Score(timeTakenSeconds float64, correct bool, t domain.QuestionType, accuracy float64) int {
	if !correct {
		return 0
	}
	if timeTakenSeconds < 0 || math.IsNaN(timeTakenSeconds) {
		timeTakenSeconds = 0
	}
	bonus := math.Max(0, BonusWindowSeconds-timeTakenSeconds) * BonusPerSecond

	base := float64(BasePoints)
	if t == domain.QuestionTypeEnumeration {
		base *= clampUnit(accuracy)
	}
	return int(base + bonus)
}

// ScoreFull is Score with full accuracy.
func ScoreFull(timeTakenSeconds float64, correct bool, t domain.QuestionType) int {
	return Score(timeTakenSeconds, correct, t, FullAccuracy)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
