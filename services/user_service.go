package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"platePaletteAPI/internal/user"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, clerk_id, email, username, first_name, weekly_goal, timezone, email_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.WeeklyGoal,
		&u.Timezone,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	query := `
	INSERT INTO users (id, clerk_id, email, username, first_name, weekly_goal, timezone, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING ` + userColumns

	created, err := scanUser(s.db.QueryRow(
		ctx,
		query,
		uuid.New().String(),
		req.ClerkID,
		strings.ToLower(req.Email),
		req.Username,
		req.FirstName,
		user.DefaultWeeklyGoal,
		user.DefaultTimezone,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`

	u, err := scanUser(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateProfileByClerkID mutates only the owner's profile. A zero WeeklyGoal
// or empty Timezone leaves the stored value untouched.
func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	if req.WeeklyGoal != 0 {
		if err := user.ValidateWeeklyGoal(req.WeeklyGoal); err != nil {
			return nil, err
		}
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, user.ErrInvalidTimezone
		}
	}

	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		weekly_goal = CASE WHEN $4 != 0 THEN $4 ELSE weekly_goal END,
		timezone = COALESCE(NULLIF($5, ''), timezone),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, clerkID, req.Username, req.FirstName, req.WeeklyGoal, req.Timezone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET email_verified = $2, updated_at = NOW() WHERE clerk_id = $1`,
		clerkID, verified)
	if err != nil {
		return fmt.Errorf("failed to update email verification: %w", err)
	}
	return nil
}

// FindUserByEmail is how friend requests are addressed. Returns only the
// public slice of the profile.
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*user.PublicProfile, error) {
	query := `
	SELECT id, email, username, first_name
	FROM users
	WHERE LOWER(email) = LOWER($1)
	`

	p := &user.PublicProfile{}
	err := s.db.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(&p.ID, &p.Email, &p.Username, &p.FirstName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return p, nil
}

// GetUserIDByClerkID resolves the internal UUID for an authenticated caller.
func (s *UserService) GetUserIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// getUserLocation loads a user's IANA timezone, falling back to the default
// when the stored name no longer parses.
func getUserLocation(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) (*time.Location, error) {
	var tz string
	err := db.QueryRow(ctx, `SELECT timezone FROM users WHERE id = $1`, userID).Scan(&tz)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user timezone: %w", err)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("getUserLocation: invalid stored timezone %q for %s, using default", tz, userID)
		return time.LoadLocation(user.DefaultTimezone)
	}
	return loc, nil
}
