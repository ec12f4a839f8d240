package quizsource

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"quizarena/internal/domain"
)

const sampleCSV = `question,answer,options,category,difficulty
What is 2+2?,4,4|3|5|22,Math,Easy
Capital of Japan?,Tokyo,Tokyo|Kyoto|Osaka,Geography,Medium
"Who said ""Eureka""?",Archimedes,,History,Hard
,missing question,,Math,Easy
`

func TestReadTriviaCSV(t *testing.T) {
	items, err := ReadTriviaCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(items))
	}
	if got := items[0].Options; len(got) != 4 || got[3] != "22" {
		t.Fatalf("unexpected options: %v", got)
	}
	if items[2].Question != `Who said "Eureka"?` || len(items[2].Options) != 0 {
		t.Fatalf("unexpected quoted row: %+v", items[2])
	}
}

func TestReadTriviaCSVRequiresColumns(t *testing.T) {
	if _, err := ReadTriviaCSV(strings.NewReader("prompt,solution\nx,y\n")); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestSampleFiltersAndShufflesOptions(t *testing.T) {
	items, _ := ReadTriviaCSV(strings.NewReader(sampleCSV))
	s := NewTriviaSampler(items)
	s.rnd = rand.New(rand.NewSource(1))

	quiz, err := s.Sample("Math", "", 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if quiz.Title != "General Knowledge Trivia - Math" {
		t.Fatalf("unexpected title %q", quiz.Title)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 math question, got %d", len(quiz.Questions))
	}
	q := quiz.Questions[0]
	if q.Type != domain.QuestionTypeMultipleChoice || q.CorrectAnswer != "4" {
		t.Fatalf("unexpected question: %+v", q)
	}
	opts := append([]string(nil), q.Options...)
	sort.Strings(opts)
	if strings.Join(opts, ",") != "22,3,4,5" {
		t.Fatalf("options should be a permutation, got %v", q.Options)
	}
}

func TestSampleFillsMissingOptions(t *testing.T) {
	items, _ := ReadTriviaCSV(strings.NewReader(sampleCSV))
	s := NewTriviaSampler(items)

	quiz, err := s.Sample("history", AllCategories, 1)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	opts := quiz.Questions[0].Options
	if len(opts) != 4 {
		t.Fatalf("expected 4 placeholder options, got %v", opts)
	}
	found := false
	for _, o := range opts {
		found = found || o == "Archimedes"
	}
	if !found {
		t.Fatalf("answer missing from options %v", opts)
	}
}

func TestSampleLimitsCountAndTitlesAllCategories(t *testing.T) {
	s := NewTriviaSampler(nil)
	quiz, err := s.Sample("", "", 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(quiz.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(quiz.Questions))
	}
	if quiz.Title != "General Knowledge Trivia - All Categories" {
		t.Fatalf("unexpected title %q", quiz.Title)
	}
	seen := make(map[string]bool)
	for _, q := range quiz.Questions {
		if seen[q.Text] {
			t.Fatalf("duplicate question %q", q.Text)
		}
		seen[q.Text] = true
	}
}

func TestSampleNoMatch(t *testing.T) {
	s := NewTriviaSampler(nil)
	if _, err := s.Sample("Sports", "", 3); !errors.Is(err, domain.ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}

func TestBuiltinCategories(t *testing.T) {
	got := strings.Join(NewTriviaSampler(nil).Categories(), ",")
	if got != "Geography,Science,Art,History,Literature" {
		t.Fatalf("unexpected categories %s", got)
	}
}

func TestLoadTriviaSamplerMissingFileFallsBack(t *testing.T) {
	s, err := LoadTriviaSampler(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Categories()) != 5 {
		t.Fatalf("expected builtin set, got %v", s.Categories())
	}
}

func TestLoadTriviaSamplerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadTriviaSampler(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(s.Categories(), ","); got != "Math,Geography,History" {
		t.Fatalf("unexpected categories %s", got)
	}
}
