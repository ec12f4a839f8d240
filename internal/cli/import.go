package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quizarena/internal/config"
	"quizarena/internal/domain"
	"quizarena/internal/infra/postgres"
)

// NewImportCmd loads quizzes from a JSON file into the Postgres library.
func NewImportCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import quizzes from a JSON file into the quiz library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "quizzes.json", "JSON array of quizzes, each with an id")
	return cmd
}

func runImport(ctx context.Context, configPath, file string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	quizzes, err := readQuizzes(file)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	loader := postgres.NewQuizLoader(pool)
	for _, quiz := range quizzes {
		if err := loader.SaveQuiz(ctx, quiz); err != nil {
			return err
		}
	}
	log.Printf("imported %d quizzes", len(quizzes))
	return nil
}

func readQuizzes(file string) ([]domain.Quiz, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	for i, quiz := range quizzes {
		if quiz.ID == "" {
			return nil, fmt.Errorf("quiz %d has no id", i)
		}
		if err := quiz.Validate(); err != nil {
			return nil, fmt.Errorf("quiz %s: %w", quiz.ID, err)
		}
	}
	return quizzes, nil
}
