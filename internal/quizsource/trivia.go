// Package quizsource builds playable quizzes from a trivia dataset or from a
// generated model reply.
package quizsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"quizarena/internal/domain"
)

// AllCategories disables the category or difficulty filter.
const AllCategories = "All"

// TriviaItem is one row of the trivia dataset.
type TriviaItem struct {
	Question   string
	Answer     string
	Options    []string
	Category   string
	Difficulty string
}

// TriviaSampler draws multiple-choice quizzes from an in-memory dataset.
type TriviaSampler struct {
	items      []TriviaItem
	categories []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTriviaSampler uses items, or the built-in set when items is empty.
func NewTriviaSampler(items []TriviaItem) *TriviaSampler {
	if len(items) == 0 {
		items = builtinTrivia()
	}
	return &TriviaSampler{
		items:      items,
		categories: categoriesOf(items),
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadTriviaSampler reads a CSV dataset from path. A missing file falls back
// to the built-in questions.
func LoadTriviaSampler(path string) (*TriviaSampler, error) {
	if path == "" {
		return NewTriviaSampler(nil), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewTriviaSampler(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open trivia dataset: %w", err)
	}
	defer f.Close()

	items, err := ReadTriviaCSV(f)
	if err != nil {
		return nil, err
	}
	return NewTriviaSampler(items), nil
}

// ReadTriviaCSV parses a dataset with a header row naming at least the
// question and answer columns. Options are '|'-separated.
func ReadTriviaCSV(r io.Reader) ([]TriviaItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trivia header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["question"]; !ok {
		return nil, errors.New("trivia dataset has no question column")
	}
	if _, ok := cols["answer"]; !ok {
		return nil, errors.New("trivia dataset has no answer column")
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var items []TriviaItem
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trivia row: %w", err)
		}
		item := TriviaItem{
			Question:   field(rec, "question"),
			Answer:     field(rec, "answer"),
			Category:   field(rec, "category"),
			Difficulty: field(rec, "difficulty"),
		}
		if item.Question == "" || item.Answer == "" {
			continue
		}
		if raw := field(rec, "options"); raw != "" {
			for _, opt := range strings.Split(raw, "|") {
				if opt = strings.TrimSpace(opt); opt != "" {
					item.Options = append(item.Options, opt)
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// Categories lists dataset categories in first-seen order.
func (s *TriviaSampler) Categories() []string {
	return append([]string(nil), s.categories...)
}

// Sample picks up to count questions matching the filters. An empty or "All"
// filter matches everything.
func (s *TriviaSampler) Sample(category, difficulty string, count int) (domain.Quiz, error) {
	var pool []TriviaItem
	for _, item := range s.items {
		if !matches(category, item.Category) || !matches(difficulty, item.Difficulty) {
			continue
		}
		pool = append(pool, item)
	}
	if len(pool) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: no trivia for category %q difficulty %q", domain.ErrEmptyQuiz, category, difficulty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if count > 0 && len(pool) > count {
		s.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		pool = pool[:count]
	}

	title := category
	if title == "" {
		title = "All Categories"
	}
	quiz := domain.Quiz{Title: "General Knowledge Trivia - " + title}
	for _, item := range pool {
		options := append([]string(nil), item.Options...)
		if len(options) == 0 {
			options = []string{item.Answer, "Option 2", "Option 3", "Option 4"}
		}
		s.rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		quiz.Questions = append(quiz.Questions, domain.Question{
			Text:          item.Question,
			CorrectAnswer: item.Answer,
			Options:       options,
			Type:          domain.QuestionTypeMultipleChoice,
		})
	}
	return quiz, nil
}

func matches(filter, value string) bool {
	return filter == "" || filter == AllCategories || strings.EqualFold(filter, value)
}

func categoriesOf(items []TriviaItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}

func builtinTrivia() []TriviaItem {
	row := func(q, a, opts, cat, diff string) TriviaItem {
		return TriviaItem{Question: q, Answer: a, Options: strings.Split(opts, "|"), Category: cat, Difficulty: diff}
	}
	return []TriviaItem{
		row("What is the capital of France?", "Paris", "Paris|London|Berlin|Madrid", "Geography", "Easy"),
		row("Which planet is known as the Red Planet?", "Mars", "Mars|Venus|Jupiter|Saturn", "Science", "Easy"),
		row("Who painted the Mona Lisa?", "Leonardo da Vinci", "Leonardo da Vinci|Pablo Picasso|Vincent van Gogh|Michelangelo", "Art", "Medium"),
		row("What is the largest mammal in the world?", "Blue Whale", "Blue Whale|Elephant|Giraffe|Hippopotamus", "Science", "Medium"),
		row("In which year did World War II end?", "1945", "1945|1918|1939|1941", "History", "Hard"),
		row("What is the chemical symbol for gold?", "Au", "Au|Ag|Fe|Cu", "Science", "Medium"),
		row(`Who wrote "Romeo and Juliet"?`, "William Shakespeare", "William Shakespeare|Charles Dickens|Jane Austen|Mark Twain", "Literature", "Easy"),
		row("What is the largest ocean on Earth?", "Pacific Ocean", "Pacific Ocean|Atlantic Ocean|Indian Ocean|Arctic Ocean", "Geography", "Easy"),
		row("How many elements are in the periodic table?", "118", "118|92|108|132", "Science", "Hard"),
		row("What is the tallest mountain in the world?", "Mount Everest", "Mount Everest|K2|Kilimanjaro|Matterhorn", "Geography", "Medium"),
	}
}
