package http

import (
	"net/http"
	"strings"

	"quizarena/internal/app"
	"quizarena/internal/auth"
	"quizarena/internal/domain"
)

type playerHandler func(w http.ResponseWriter, r *http.Request, player app.Player)

type authenticator struct {
	service *app.GameService
	tokens  *auth.Issuer
}

// player resolves the bearer token of r. Websocket clients may pass it as
// the token query parameter instead.
func (a authenticator) player(r *http.Request) (app.Player, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		return app.Player{}, domain.ErrInvalidToken
	}
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return app.Player{}, err
	}
	player, err := a.service.Player(r.Context(), claims.Username)
	if err != nil {
		// renamed or deleted since the token was issued
		return app.Player{}, domain.ErrInvalidToken
	}
	return player, nil
}

func (a authenticator) require(next playerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := a.player(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, player)
	}
}
