package http

import (
	"net/http"
	"strconv"

	"quizarena/internal/app"
	"quizarena/internal/auth"
	"quizarena/internal/domain"
)

// APIHandler serves the JSON API for accounts, lobbies and rounds.
type APIHandler struct {
	service *app.GameService
	tokens  *auth.Issuer
	auth    authenticator
}

func NewAPIHandler(service *app.GameService, tokens *auth.Issuer) *APIHandler {
	return &APIHandler{
		service: service,
		tokens:  tokens,
		auth:    authenticator{service: service, tokens: tokens},
	}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("GET /api/avatars", h.avatars)
	mux.HandleFunc("GET /api/leaderboard", h.globalLeaderboard)
	mux.HandleFunc("GET /api/trivia/categories", h.triviaCategories)

	mux.HandleFunc("GET /api/profile", h.auth.require(h.profile))
	mux.HandleFunc("PUT /api/profile", h.auth.require(h.updateProfile))

	mux.HandleFunc("POST /api/rounds", h.auth.require(h.startRound))
	mux.HandleFunc("GET /api/rounds/{id}", h.auth.require(h.pollRound))
	mux.HandleFunc("POST /api/rounds/{id}/answers", h.auth.require(h.submitAnswer))
	mux.HandleFunc("POST /api/rounds/{id}/reset", h.auth.require(h.resetRound))
	mux.HandleFunc("DELETE /api/rounds/{id}", h.auth.require(h.discardRound))

	mux.HandleFunc("GET /api/lobbies", h.auth.require(h.listLobbies))
	mux.HandleFunc("POST /api/lobbies", h.auth.require(h.createLobby))
	mux.HandleFunc("GET /api/lobbies/{code}", h.auth.require(h.getLobby))
	mux.HandleFunc("POST /api/lobbies/{code}/join", h.auth.require(h.joinLobby))
	mux.HandleFunc("POST /api/lobbies/{code}/leave", h.auth.require(h.leaveLobby))
	mux.HandleFunc("PUT /api/lobbies/{code}/quiz", h.auth.require(h.attachQuiz))
	mux.HandleFunc("POST /api/lobbies/{code}/start", h.auth.require(h.startLobby))
	mux.HandleFunc("POST /api/lobbies/{code}/rounds", h.auth.require(h.joinLobbyRound))
	mux.HandleFunc("GET /api/lobbies/{code}/leaderboard", h.auth.require(h.lobbyLeaderboard))
}

// userView is a user without the password hash.
type userView struct {
	ID               string `json:"userId"`
	Username         string `json:"username"`
	Avatar           string `json:"avatar"`
	Score            int    `json:"score"`
	QuizzesCompleted int    `json:"quizzesCompleted"`
}

func viewUser(u domain.User) userView {
	return userView{
		ID:               u.ID,
		Username:         u.Username,
		Avatar:           u.Avatar,
		Score:            u.Score,
		QuizzesCompleted: u.QuizzesCompleted,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (h *APIHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), req.Username, req.Password, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, user)
}

func (h *APIHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, user)
}

func (h *APIHandler) writeSession(w http.ResponseWriter, status int, user domain.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, User: viewUser(user)})
}

func (h *APIHandler) avatars(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, app.Avatars)
}

func (h *APIHandler) globalLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.service.GlobalLeaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *APIHandler) triviaCategories(w http.ResponseWriter, _ *http.Request) {
	categories := h.service.TriviaCategories()
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *APIHandler) profile(w http.ResponseWriter, r *http.Request, player app.Player) {
	user, err := h.service.Profile(r.Context(), player.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUser(user))
}

// updateProfile reissues the token since it carries the username.
func (h *APIHandler) updateProfile(w http.ResponseWriter, r *http.Request, player app.Player) {
	var req struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), player.Username, req.Username, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, user)
}

func (h *APIHandler) startRound(w http.ResponseWriter, r *http.Request, player app.Player) {
	var req app.QuizRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.service.Start(r.Context(), player, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *APIHandler) pollRound(w http.ResponseWriter, r *http.Request, player app.Player) {
	snap, err := h.service.PollRound(r.Context(), r.PathValue("id"), player.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (h *APIHandler) submitAnswer(w http.ResponseWriter, r *http.Request, player app.Player) {
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.service.SubmitAnswer(r.Context(), r.PathValue("id"), player.ID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) resetRound(w http.ResponseWriter, r *http.Request, player app.Player) {
	snap, err := h.service.PlayAgain(r.Context(), r.PathValue("id"), player.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) discardRound(w http.ResponseWriter, r *http.Request, player app.Player) {
	if err := h.service.DiscardRound(r.Context(), r.PathValue("id"), player.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listLobbies(w http.ResponseWriter, r *http.Request, _ app.Player) {
	lobbies, err := h.service.ListPublicLobbies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]lobbyView, 0, len(lobbies))
	for _, l := range lobbies {
		views = append(views, viewLobby(l))
	}
	writeJSON(w, http.StatusOK, views)
}

type createLobbyRequest struct {
	Name       string                 `json:"name"`
	Visibility domain.LobbyVisibility `json:"type"`
	MaxPlayers int                    `json:"maxPlayers"`
}

func (h *APIHandler) createLobby(w http.ResponseWriter, r *http.Request, player app.Player) {
	var req createLobbyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	lobby, err := h.service.CreateLobby(r.Context(), player, req.Name, req.Visibility, req.MaxPlayers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewLobby(lobby))
}

func (h *APIHandler) getLobby(w http.ResponseWriter, r *http.Request, _ app.Player) {
	lobby, err := h.service.GetLobby(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewLobby(lobby))
}

func (h *APIHandler) joinLobby(w http.ResponseWriter, r *http.Request, player app.Player) {
	lobby, err := h.service.JoinLobby(r.Context(), r.PathValue("code"), player)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewLobby(lobby))
}

func (h *APIHandler) leaveLobby(w http.ResponseWriter, r *http.Request, player app.Player) {
	if err := h.service.LeaveLobby(r.Context(), r.PathValue("code"), player.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) attachQuiz(w http.ResponseWriter, r *http.Request, player app.Player) {
	var req app.QuizRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	lobby, err := h.service.AttachQuizRequest(r.Context(), r.PathValue("code"), player.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewLobby(lobby))
}

func (h *APIHandler) startLobby(w http.ResponseWriter, r *http.Request, player app.Player) {
	lobby, err := h.service.StartLobbyGame(r.Context(), r.PathValue("code"), player.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewLobby(lobby))
}

func (h *APIHandler) joinLobbyRound(w http.ResponseWriter, r *http.Request, player app.Player) {
	snap, err := h.service.StartLobbyRound(r.Context(), r.PathValue("code"), player)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *APIHandler) lobbyLeaderboard(w http.ResponseWriter, r *http.Request, _ app.Player) {
	lb, err := h.service.LobbyLeaderboard(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// lobbyView hides the answer key of the attached quiz.
type lobbyView struct {
	Code            string                 `json:"code"`
	Name            string                 `json:"name"`
	Visibility      domain.LobbyVisibility `json:"type"`
	MaxPlayers      int                    `json:"maxPlayers"`
	Players         []string               `json:"players"`
	PlayerNames     []string               `json:"playerNames"`
	Host            string                 `json:"host"`
	Status          domain.LobbyStatus     `json:"status"`
	QuizTitle       string                 `json:"quizTitle,omitempty"`
	QuestionCount   int                    `json:"questionCount"`
	CurrentQuestion int                    `json:"currentQuestion"`
	Scores          map[string]int         `json:"scores"`
	Capacity        string                 `json:"capacity"`
}

func viewLobby(l domain.Lobby) lobbyView {
	v := lobbyView{
		Code:            l.Code,
		Name:            l.Name,
		Visibility:      l.Visibility,
		MaxPlayers:      l.MaxPlayers,
		Players:         l.Players,
		PlayerNames:     l.PlayerNames,
		Host:            l.Host,
		Status:          l.Status,
		CurrentQuestion: l.CurrentQuestion,
		Scores:          l.Scores,
		Capacity:        strconv.Itoa(len(l.Players)) + "/" + strconv.Itoa(l.MaxPlayers),
	}
	if l.Quiz != nil {
		v.QuizTitle = l.Quiz.Title
		v.QuestionCount = len(l.Quiz.Questions)
	}
	return v
}
