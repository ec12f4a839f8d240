package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quizarena/internal/app"
	"quizarena/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, err := env.svc.Register(ctx, "  ada ", "secret", "not-an-avatar")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "ada" || user.Avatar != app.Avatars[0] || !strings.HasPrefix(user.ID, "user_") {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Fatalf("password must be hashed")
	}

	got, err := env.svc.Login(ctx, "ada", "secret")
	if err != nil || got.ID != user.ID {
		t.Fatalf("login: %+v %v", got, err)
	}
	if _, err := env.svc.Login(ctx, "ada", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := env.svc.Login(ctx, "nobody", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"blank username", "   ", "secret", domain.ErrUsernameRequired},
		{"short password", "ada", "abc", domain.ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.svc.Register(ctx, tc.username, tc.password, ""); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := env.svc.Register(ctx, "ada", "abcd", "🎓"); err != nil {
		t.Fatalf("four character password should pass: %v", err)
	}
	if _, err := env.svc.Register(ctx, "ada", "secret", ""); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateProfileKeepsBlankFields(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.svc.Register(ctx, "ada", "secret", "🎓")
	env.svc.Register(ctx, "bob", "secret", "")

	user, err := env.svc.UpdateProfile(ctx, "ada", "", "🤔")
	if err != nil || user.Username != "ada" || user.Avatar != "🤔" {
		t.Fatalf("avatar change: %+v %v", user, err)
	}
	user, err = env.svc.UpdateProfile(ctx, "ada", "lovelace", "")
	if err != nil || user.Username != "lovelace" || user.Avatar != "🤔" {
		t.Fatalf("rename: %+v %v", user, err)
	}
	if _, err := env.svc.UpdateProfile(ctx, "lovelace", "bob", ""); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := env.svc.Login(ctx, "lovelace", "secret"); err != nil {
		t.Fatalf("login after rename: %v", err)
	}
}

func TestGlobalLeaderboardOrdersByScore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ids := make(map[string]string)
	for _, name := range []string{"cy", "bob", "ada"} {
		user, _ := env.svc.Register(ctx, name, "secret", "")
		ids[name] = user.ID
	}
	env.users.RecordCompletion(ctx, ids["bob"], 300)
	env.users.RecordCompletion(ctx, ids["cy"], 100)
	env.users.RecordCompletion(ctx, ids["ada"], 100)

	lb, err := env.svc.GlobalLeaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	var order []string
	for _, e := range lb.Entries {
		order = append(order, e.DisplayName)
	}
	if got := strings.Join(order, ","); got != "bob,ada,cy" {
		t.Fatalf("unexpected order %s", got)
	}
	if lb.Entries[0].Rank != 1 || lb.Entries[2].Rank != 3 || lb.Entries[0].QuizzesCompleted != 1 {
		t.Fatalf("unexpected entries %+v", lb.Entries)
	}
}
