// Package scoring decides answer correctness and converts it into points.
package scoring

import (
	"strings"

	"quizarena/internal/domain"
)

// Evaluate reports whether submitted is a correct answer to q.
// Empty submissions, empty reference answers and unknown question types are
// never correct. A whitespace-only reference still admits essays.
func Evaluate(q domain.Question, submitted string) bool {
	answer := normalize(submitted)
	if answer == "" || q.CorrectAnswer == "" {
		return false
	}
	reference := normalize(q.CorrectAnswer)

	switch q.Type {
	case domain.QuestionTypeMultipleChoice, domain.QuestionTypeTrueFalse, domain.QuestionTypeFillInBlank:
		return answer == reference
	case domain.QuestionTypeEnumeration:
		for _, item := range splitItems(q.CorrectAnswer) {
			if item == answer {
				return true
			}
		}
		return false
	case domain.QuestionTypeFreeResponse:
		return true
	case domain.QuestionTypeUnknown:
		return false
	default:
		return false
	}
}

// EnumerationAccuracy returns the fraction of reference items present in a
// comma-separated submission. Non-enumeration questions score 1 when Evaluate
// accepts the answer and 0 otherwise.
func EnumerationAccuracy(q domain.Question, submitted string) float64 {
	if q.Type != domain.QuestionTypeEnumeration {
		if Evaluate(q, submitted) {
			return 1
		}
		return 0
	}
	want := splitItems(q.CorrectAnswer)
	if len(want) == 0 {
		return 0
	}
	got := make(map[string]struct{})
	for _, item := range splitItems(submitted) {
		got[item] = struct{}{}
	}
	hits := 0
	for _, item := range want {
		if _, ok := got[item]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func splitItems(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if item := normalize(p); item != "" {
			items = append(items, item)
		}
	}
	return items
}
