package scoring

import (
	"testing"

	"quizarena/internal/domain"
)

func TestEvaluateEmptyAnswerIsAlwaysWrong(t *testing.T) {
	types := []domain.QuestionType{
		domain.QuestionTypeMultipleChoice,
		domain.QuestionTypeTrueFalse,
		domain.QuestionTypeFillInBlank,
		domain.QuestionTypeEnumeration,
		domain.QuestionTypeFreeResponse,
		domain.QuestionTypeUnknown,
	}
	for _, qt := range types {
		q := domain.Question{Text: "q", CorrectAnswer: "x", Type: qt}
		if Evaluate(q, "") {
			t.Fatalf("%q: empty answer evaluated true", qt)
		}
		if Evaluate(q, "   ") {
			t.Fatalf("%q: blank answer evaluated true", qt)
		}
	}
}

func TestEvaluateExactMatchIgnoresCaseAndSpace(t *testing.T) {
	for _, qt := range []domain.QuestionType{
		domain.QuestionTypeMultipleChoice,
		domain.QuestionTypeTrueFalse,
		domain.QuestionTypeFillInBlank,
	} {
		q := domain.Question{CorrectAnswer: "Paris", Type: qt}
		if !Evaluate(q, " paris ") || !Evaluate(q, "Paris") {
			t.Fatalf("%q: expected case/space insensitive match", qt)
		}
		if Evaluate(q, "Pari") {
			t.Fatalf("%q: expected no fuzzy match", qt)
		}
	}

	tf := domain.Question{CorrectAnswer: "True", Type: domain.QuestionTypeTrueFalse}
	if Evaluate(tf, "False") {
		t.Fatalf("expected False to be wrong")
	}
}

func TestEvaluateEnumerationMatchesAnyItem(t *testing.T) {
	q := domain.Question{CorrectAnswer: "Mars, Venus, Jupiter", Type: domain.QuestionTypeEnumeration}
	if !Evaluate(q, "mars") {
		t.Fatalf("expected mars to match")
	}
	if !Evaluate(q, " JUPITER") {
		t.Fatalf("expected jupiter to match")
	}

	q.CorrectAnswer = "Venus, Jupiter"
	if Evaluate(q, "mars") {
		t.Fatalf("expected mars not to match")
	}
}

func TestEvaluateFreeResponseAcceptsAnyText(t *testing.T) {
	q := domain.Question{CorrectAnswer: "Photosynthesis turns light into energy", Type: domain.QuestionTypeFreeResponse}
	if !Evaluate(q, "plants eat sunlight") {
		t.Fatalf("expected non-empty essay to be accepted")
	}
}

func TestEvaluateFailsClosed(t *testing.T) {
	unknown := domain.Question{CorrectAnswer: "a", Type: domain.ParseQuestionType("matching")}
	if Evaluate(unknown, "a") {
		t.Fatalf("expected unknown type to evaluate false")
	}
	noReference := domain.Question{Type: domain.QuestionTypeMultipleChoice}
	if Evaluate(noReference, "a") {
		t.Fatalf("expected missing reference to evaluate false")
	}
}

func TestEnumerationAccuracy(t *testing.T) {
	q := domain.Question{CorrectAnswer: "Mars, Venus, Jupiter, Saturn", Type: domain.QuestionTypeEnumeration}
	if got := EnumerationAccuracy(q, "venus, mars"); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := EnumerationAccuracy(q, "pluto"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}

	mcq := domain.Question{CorrectAnswer: "Au", Type: domain.QuestionTypeMultipleChoice}
	if got := EnumerationAccuracy(mcq, "au"); got != 1 {
		t.Fatalf("expected 1 for correct mcq, got %v", got)
	}
}

func TestEvaluateReferenceEmptiness(t *testing.T) {
	essay := domain.Question{Type: domain.QuestionTypeFreeResponse}
	if Evaluate(essay, "anything") {
		t.Fatalf("essay with no reference answer accepted")
	}
	essay.CorrectAnswer = "   "
	if !Evaluate(essay, "anything") {
		t.Fatalf("essay with blank reference answer rejected")
	}
	fill := domain.Question{Type: domain.QuestionTypeFillInBlank, CorrectAnswer: "   "}
	if Evaluate(fill, "anything") {
		t.Fatalf("blank reference matched a real answer")
	}
}
