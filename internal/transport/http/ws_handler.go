package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quizarena/internal/app"
	"quizarena/internal/auth"
	"quizarena/internal/domain"
)

const defaultPollInterval = time.Second

// WSHandler streams round snapshots over a websocket and accepts answers.
type WSHandler struct {
	service      *app.GameService
	auth         authenticator
	pollInterval time.Duration
	upgrader     websocket.Upgrader
}

func NewWSHandler(service *app.GameService, tokens *auth.Issuer, pollInterval time.Duration) *WSHandler {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &WSHandler{
		service:      service,
		auth:         authenticator{service: service, tokens: tokens},
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts the round stream on mux.
func (h *WSHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/rounds/{id}", h.ServeWS)
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and drives the round: a ticker polls it every
// pollInterval and answers are submitted as they arrive. Closing the stream
// discards the round.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	player, err := h.auth.player(r)
	if err != nil {
		writeError(w, err)
		return
	}
	first, err := h.service.PollRound(r.Context(), roundID, player.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// emit hands a message to the writer unless the connection is closing.
	emit := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-closeSignals:
			return false
		case <-writerDone:
			return false
		}
	}
	emitErr := func(err error) bool {
		return emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
	}

	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(h.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				snap, err := h.service.PollRound(r.Context(), roundID, player.ID)
				if err != nil {
					emitErr(err)
					if errors.Is(err, domain.ErrSessionNotFound) {
						conn.Close()
						return
					}
					continue
				}
				if !emit(outboundMessage[any]{Type: "snapshot", Payload: snap}) {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	emit(outboundMessage[any]{Type: "snapshot", Payload: first})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitErr(errors.New("invalid answer payload"))
				continue
			}
			snap, err := h.service.SubmitAnswer(r.Context(), roundID, player.ID, payload.Answer)
			if err != nil {
				emitErr(err)
				continue
			}
			emit(outboundMessage[any]{Type: "snapshot", Payload: snap})
		case "reset":
			snap, err := h.service.PlayAgain(r.Context(), roundID, player.ID)
			if err != nil {
				emitErr(err)
				continue
			}
			emit(outboundMessage[any]{Type: "snapshot", Payload: snap})
		default:
			emitErr(errors.New("unsupported message type"))
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone

	// the round lives as long as its stream
	if err := h.service.DiscardRound(context.Background(), roundID, player.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		log.Printf("discard round %s: %v", roundID, err)
	}
}
