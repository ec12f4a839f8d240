package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizarena/internal/config"
	"quizarena/internal/domain"
)

func TestReadQuizzes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizzes.json")
	raw := `[{"id": "cells", "quiz_title": "Cells", "questions": [
		{"question": "Powerhouse?", "correct_answer": "Mitochondria", "question_type": "identification"}]}]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	quizzes, err := readQuizzes(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Questions[0].Type != domain.QuestionTypeFillInBlank {
		t.Fatalf("unexpected quizzes: %+v", quizzes)
	}
}

func TestReadQuizzesRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	noID := filepath.Join(dir, "noid.json")
	os.WriteFile(noID, []byte(`[{"quiz_title": "x", "questions": [{"question": "q", "correct_answer": "a"}]}]`), 0o644)
	if _, err := readQuizzes(noID); err == nil {
		t.Fatalf("expected missing id error")
	}
	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`[{"id": "x", "questions": []}]`), 0o644)
	if _, err := readQuizzes(empty); !errors.Is(err, domain.ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}

func TestRoundSettingsFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.Round.ChoiceLimit = "10s"
	cfg.Round.ResultDisplay = "1s"

	settings := roundSettings(cfg)
	if settings.Limits.Choice != 10*time.Second || settings.ResultDisplay != time.Second {
		t.Fatalf("unexpected overrides: %+v", settings)
	}
	if settings.Limits.TextMax != 30*time.Second || settings.Limits.PerChar != 500*time.Millisecond {
		t.Fatalf("defaults not kept: %+v", settings.Limits)
	}
	if settings.Retention != 5*time.Minute || settings.IdleTimeout != 30*time.Minute {
		t.Fatalf("unexpected eviction settings: %+v", settings)
	}
}

func TestSampleQuizzesAreValid(t *testing.T) {
	for id, quiz := range sampleQuizzes() {
		if quiz.ID != id {
			t.Fatalf("quiz %s has id %s", id, quiz.ID)
		}
		if err := quiz.Validate(); err != nil {
			t.Fatalf("quiz %s: %v", id, err)
		}
	}
}
