package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IgorOC/Taste-Trip/internal/types"
)

var ErrUserNotFound = errors.New("user not found")
var ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the persistence contract for users and refresh tokens.
type AuthRepo interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
	StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ConsumeRefreshToken(ctx context.Context, token string) (string, error)
	InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	var id string
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
		username, email, passwordHash).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.InfoContext(ctx, "User created", slog.String("user_id", id))
	return id, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = $1",
		userID).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by id: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ConsumeRefreshToken validates a refresh token and invalidates it in the
// same statement, returning the owning user id. Rotation keeps stolen
// refresh tokens single-use.
func (r *PostgresAuthRepo) ConsumeRefreshToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.pgpool.QueryRow(ctx,
		`UPDATE refresh_tokens SET invalidated_at = now()
		 WHERE token = $1 AND expires_at > now() AND invalidated_at IS NULL
		 RETURNING user_id`,
		token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrRefreshTokenInvalid
		}
		return "", fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET invalidated_at = now() WHERE user_id = $1 AND invalidated_at IS NULL",
		userID)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh tokens: %w", err)
	}
	return nil
}
