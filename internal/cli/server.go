package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"quizarena/internal/app"
	"quizarena/internal/auth"
	"quizarena/internal/config"
	"quizarena/internal/domain"
	"quizarena/internal/infra/jsonfile"
	"quizarena/internal/infra/memory"
	"quizarena/internal/infra/postgres"
	redisstore "quizarena/internal/infra/redis"
	"quizarena/internal/quizsource"
	"quizarena/internal/scoring"
	transport "quizarena/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = postgres.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var users app.UserRepository
	switch {
	case pool != nil:
		users = postgres.NewUserStore(pool)
	case cfg.Users.File != "":
		users = jsonfile.NewUserStore(cfg.Users.File)
	default:
		users = memory.NewUserStore()
	}

	var (
		lobbies app.LobbyRepository
		rounds  app.RoundRepository
	)
	if redisClient != nil {
		lobbies = redisstore.NewLobbyStore(redisClient, redisTTL)
		rounds = redisstore.NewRoundStore(redisClient, redisTTL)
	} else {
		lobbies = memory.NewLobbyStore()
		rounds = memory.NewRoundStore()
	}

	trivia, err := quizsource.LoadTriviaSampler(cfg.Trivia.Dataset)
	if err != nil {
		return err
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		log.Printf("auth.secret not set, using a random secret; tokens will not survive a restart")
		secret = uuid.NewString()
	}
	tokens, err := auth.NewIssuer(secret, config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL))
	if err != nil {
		return err
	}

	service := app.NewGameService(app.Deps{
		Users:   users,
		Lobbies: lobbies,
		Rounds:  rounds,
		Quizzes: quizRepo,
		Trivia:  trivia,
	}, roundSettings(cfg))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewAPIHandler(service, tokens).Register(mux)
	transport.NewWSHandler(service, tokens, config.TTLDuration(cfg.Round.PollInterval, time.Second)).Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(roundSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				service.SweepRounds()
			case <-gctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

const roundSweepInterval = time.Minute

func roundSettings(cfg config.Config) app.RoundSettings {
	defaults := app.DefaultRoundSettings()
	return app.RoundSettings{
		Limits: scoring.TimeLimits{
			Choice:  config.TTLDuration(cfg.Round.ChoiceLimit, defaults.Limits.Choice),
			TextMin: config.TTLDuration(cfg.Round.TextMin, defaults.Limits.TextMin),
			TextMax: config.TTLDuration(cfg.Round.TextMax, defaults.Limits.TextMax),
			PerChar: config.TTLDuration(cfg.Round.PerChar, defaults.Limits.PerChar),
		},
		ResultDisplay: config.TTLDuration(cfg.Round.ResultDisplay, defaults.ResultDisplay),
		Retention:     config.TTLDuration(cfg.Round.Retention, defaults.Retention),
		IdleTimeout:   config.TTLDuration(cfg.Round.IdleTimeout, defaults.IdleTimeout),
		Now:           time.Now,
	}
}

// sampleQuizzes seeds the library when no database is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Warm-up",
			Questions: []domain.Question{
				{Text: "What is 2 + 2?", CorrectAnswer: "4", Options: []string{"3", "4", "5"}, Type: domain.QuestionTypeMultipleChoice},
				{Text: "Water boils at 100°C at sea level.", CorrectAnswer: "True", Type: domain.QuestionTypeTrueFalse},
				{Text: "The powerhouse of the cell is the ____.", CorrectAnswer: "mitochondria", Type: domain.QuestionTypeFillInBlank},
				{Text: "Name a primary colour.", CorrectAnswer: "red, blue, yellow", Type: domain.QuestionTypeEnumeration},
			},
		},
	}
}
