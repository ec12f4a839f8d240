package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"quizarena/internal/app"
	"quizarena/internal/auth"
	"quizarena/internal/domain"
	"quizarena/internal/infra/memory"
	"quizarena/internal/quizsource"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	server *httptest.Server
	clock  *testClock
}

// newTestEnv serves the API and round stream backed by in-memory stores. A
// nil clock uses wall time.
func newTestEnv(t *testing.T, clock *testClock) *testEnv {
	t.Helper()
	settings := app.DefaultRoundSettings()
	if clock != nil {
		settings.Now = clock.Now
	}
	service := app.NewGameService(app.Deps{
		Users:   memory.NewUserStore(),
		Lobbies: memory.NewLobbyStore(),
		Rounds:  memory.NewRoundStore(),
		Quizzes: memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute),
		Trivia:  quizsource.NewTriviaSampler(nil),
	}, settings)
	tokens, err := auth.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	mux := http.NewServeMux()
	NewAPIHandler(service, tokens).Register(mux)
	NewWSHandler(service, tokens, 20*time.Millisecond).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testEnv{server: server, clock: clock}
}

// do sends a JSON request and decodes the response into out when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		// start from zero so omitted fields do not leak between calls
		v := reflect.ValueOf(out).Elem()
		v.Set(reflect.Zero(v.Type()))
	}
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) register(t *testing.T, username string) sessionResponse {
	t.Helper()
	var session sessionResponse
	status := e.do(t, http.MethodPost, "/api/auth/register", "", credentials{Username: username, Password: "secret"}, &session)
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, status)
	}
	return session
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Arithmetic",
			Questions: []domain.Question{
				{Text: "What is 2 + 2?", CorrectAnswer: "4", Options: []string{"3", "4", "5"}, Type: domain.QuestionTypeMultipleChoice},
				{Text: "The sky is green.", CorrectAnswer: "False", Type: domain.QuestionTypeTrueFalse},
			},
		},
	}
}
