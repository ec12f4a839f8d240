package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a round, its quiz or its lobby has vanished.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrLobbyNotFound is returned by lobby stores for unknown codes.
	ErrLobbyNotFound = errors.New("lobby not found")
	// ErrLobbyFull is returned when joining a lobby at capacity.
	ErrLobbyFull = errors.New("lobby is full")
	// ErrAlreadyInLobby is returned when a player joins a lobby twice.
	ErrAlreadyInLobby = errors.New("player already in lobby")
	// ErrNotInLobby is returned when a non-member acts on a lobby.
	ErrNotInLobby = errors.New("player not in lobby")
	// ErrNotHost is returned when a non-host tries a host-only action.
	ErrNotHost = errors.New("only the host can do that")
	// ErrLobbyHasNoQuiz is returned when starting a lobby without a quiz.
	ErrLobbyHasNoQuiz = errors.New("lobby has no quiz")
	// ErrLobbyNotPlaying is returned when a round is requested for a waiting lobby.
	ErrLobbyNotPlaying = errors.New("lobby is not playing")
	// ErrLobbyAlreadyPlaying is returned when the host changes or restarts a running game.
	ErrLobbyAlreadyPlaying = errors.New("lobby game already in progress")
	// ErrInvalidLobby indicates a lobby record breaks its roster invariants.
	ErrInvalidLobby = errors.New("invalid lobby")
	// ErrEmptyQuiz is returned for quizzes without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")

	// ErrUserNotFound is returned by user stores for unknown usernames.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameRequired is returned when registering without a username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrUsernameTaken is returned on duplicate registration or rename.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrPasswordTooShort is returned when a password is under the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters long")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned for missing, expired or forged bearer tokens.
	ErrInvalidToken = errors.New("invalid token")
)

var (
	// ErrLobbyCodeTaken is returned by lobby stores when a generated code collides.
	ErrLobbyCodeTaken = errors.New("lobby code already in use")
	// ErrRoundNotResettable is returned when replaying a lobby-backed round.
	ErrRoundNotResettable = errors.New("lobby rounds are restarted by the host")
)
