package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizarena/internal/app"
)

func TestWebSocketAnswerFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register(t, "ada").Token

	var started app.Snapshot
	if status := env.do(t, http.MethodPost, "/api/rounds", token, app.QuizRequest{QuizID: "quiz-1"}, &started); status != http.StatusCreated {
		t.Fatalf("start: status %d", status)
	}

	u := "ws" + env.server.URL[len("http"):] + "/ws/rounds/" + started.RoundID + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readSnapshot(t, conn)
	if first.RoundID != started.RoundID || first.Phase != app.PhaseAwaitingAnswer {
		t.Fatalf("unexpected first snapshot: %+v", first)
	}

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"answer": "4"},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	// ticker snapshots interleave with the reply; wait for the result
	for i := 0; i < 50; i++ {
		snap := readSnapshot(t, conn)
		if snap.Result != nil {
			if !snap.Result.Correct || snap.Score != snap.Result.Score || snap.Score < 100 {
				t.Fatalf("unexpected result snapshot: %+v", snap)
			}
			return
		}
	}
	t.Fatalf("no result snapshot received")
}

func TestWebSocketCloseDiscardsRound(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register(t, "ada").Token

	var started app.Snapshot
	env.do(t, http.MethodPost, "/api/rounds", token, app.QuizRequest{QuizID: "quiz-1"}, &started)

	u := "ws" + env.server.URL[len("http"):] + "/ws/rounds/" + started.RoundID + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readSnapshot(t, conn)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status := env.do(t, http.MethodGet, "/api/rounds/"+started.RoundID, token, nil, nil); status == http.StatusNotFound {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("round still live after its stream closed")
}

func TestWebSocketRejectsUnknownRound(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register(t, "ada").Token

	u := "ws" + env.server.URL[len("http"):] + "/ws/rounds/nope?token=" + token
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) app.Snapshot {
	t.Helper()
	var msg struct {
		Type    string       `json:"type"`
		Payload app.Snapshot `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "snapshot" {
		t.Fatalf("expected snapshot, got %s", msg.Type)
	}
	return msg.Payload
}
