package quizsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizarena/internal/domain"
)

// ErrNoQuizJSON is returned when a reply contains no JSON object.
var ErrNoQuizJSON = errors.New("no quiz json in reply")

// ParseGenerated decodes the quiz object embedded in a model reply, taking
// everything from the first '{' to the last '}'.
func ParseGenerated(raw string) (domain.Quiz, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return domain.Quiz{}, ErrNoQuizJSON
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(raw[start:end+1]), &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("decode generated quiz: %w", err)
	}
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		if q.Type == domain.QuestionTypeTrueFalse && len(q.Options) == 0 {
			q.Options = []string{"True", "False"}
		}
	}
	return quiz, nil
}
