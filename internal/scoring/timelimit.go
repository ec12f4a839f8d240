package scoring

import (
	"time"
	"unicode/utf8"

	"quizarena/internal/domain"
)

// TimeLimits controls how long a question stays open.
type TimeLimits struct {
	// Choice applies to multiple-choice and true/false questions.
	Choice time.Duration
	// Text questions get PerChar for every rune of the reference answer,
	// clamped to [TextMin, TextMax].
	TextMin time.Duration
	TextMax time.Duration
	PerChar time.Duration
}

func DefaultTimeLimits() TimeLimits {
	return TimeLimits{
		Choice:  6 * time.Second,
		TextMin: 6 * time.Second,
		TextMax: 30 * time.Second,
		PerChar: 500 * time.Millisecond,
	}
}

// Limit returns the answer window for q.
func (l TimeLimits) Limit(q domain.Question) time.Duration {
	switch q.Type {
	case domain.QuestionTypeFillInBlank, domain.QuestionTypeEnumeration, domain.QuestionTypeFreeResponse:
		d := time.Duration(utf8.RuneCountInString(q.CorrectAnswer)) * l.PerChar
		if d < l.TextMin {
			d = l.TextMin
		}
		if l.TextMax > 0 && d > l.TextMax {
			d = l.TextMax
		}
		return d
	default:
		return l.Choice
	}
}
