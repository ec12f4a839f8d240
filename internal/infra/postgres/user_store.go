package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizarena/internal/domain"
)

const uniqueViolation = "23505"

const userColumns = `id, username, password_hash, avatar, score, quizzes_completed, created_at`

// UserStore persists users in the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, user domain.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.PasswordHash, user.Avatar, user.Score, user.QuizzesCompleted, user.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) Get(ctx context.Context, username string) (domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	return scanUser(row)
}

func (s *UserStore) UpdateProfile(ctx context.Context, username, newUsername, avatar string) (domain.User, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE users SET username=$2, avatar=$3 WHERE username=$1 RETURNING `+userColumns,
		username, newUsername, avatar)
	user, err := scanUser(row)
	if isUniqueViolation(err) {
		return domain.User{}, domain.ErrUsernameTaken
	}
	return user, err
}

func (s *UserStore) RecordCompletion(ctx context.Context, userID string, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET score=score+$2, quizzes_completed=quizzes_completed+1 WHERE id=$1`,
		userID, score)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY score DESC, username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Avatar, &u.Score, &u.QuizzesCompleted, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
