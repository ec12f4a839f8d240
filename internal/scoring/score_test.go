package scoring

import (
	"testing"
	"time"

	"quizarena/internal/domain"
)

func TestScore(t *testing.T) {
	mcq := domain.QuestionTypeMultipleChoice
	cases := []struct {
		name     string
		taken    float64
		correct  bool
		qt       domain.QuestionType
		accuracy float64
		want     int
	}{
		{"instant", 0, true, mcq, 1, 200},
		{"bonus decayed", 5, true, mcq, 1, 100},
		{"bonus floors at zero", 6, true, mcq, 1, 100},
		{"wrong", 2, false, mcq, 1, 0},
		{"fractional truncates", 2.5, true, mcq, 1, 150},
		{"negative time clamps", -3, true, mcq, 1, 200},
		{"enumeration scaled", 0, true, domain.QuestionTypeEnumeration, 0.5, 150},
		{"accuracy ignored elsewhere", 0, true, mcq, 0.5, 200},
		{"accuracy clamped", 5, true, domain.QuestionTypeEnumeration, 3, 100},
		{"third accuracy truncates", 5, true, domain.QuestionTypeEnumeration, 1.0 / 3, 33},
	}
	for _, tc := range cases {
		if got := Score(tc.taken, tc.correct, tc.qt, tc.accuracy); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestScoreFullDefaultsAccuracy(t *testing.T) {
	if got := ScoreFull(0, true, domain.QuestionTypeEnumeration); got != 200 {
		t.Fatalf("expected full credit 200, got %d", got)
	}
}

func TestTimeLimits(t *testing.T) {
	limits := DefaultTimeLimits()

	if got := limits.Limit(domain.Question{Type: domain.QuestionTypeMultipleChoice, CorrectAnswer: "a very long option text indeed"}); got != 6*time.Second {
		t.Fatalf("expected choice limit 6s, got %v", got)
	}
	if got := limits.Limit(domain.Question{Type: domain.QuestionTypeFillInBlank, CorrectAnswer: "Au"}); got != 6*time.Second {
		t.Fatalf("expected short text to clamp to 6s, got %v", got)
	}
	if got := limits.Limit(domain.Question{Type: domain.QuestionTypeEnumeration, CorrectAnswer: "Item1, Item2, Item3, Item4"}); got != 13*time.Second {
		t.Fatalf("expected 13s for 26 runes, got %v", got)
	}
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	if got := limits.Limit(domain.Question{Type: domain.QuestionTypeFreeResponse, CorrectAnswer: string(long)}); got != 30*time.Second {
		t.Fatalf("expected long text to clamp to 30s, got %v", got)
	}
}
