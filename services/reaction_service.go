package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"platePaletteAPI/internal/friendship"
	"platePaletteAPI/internal/notification"
	"platePaletteAPI/internal/reaction"
	"platePaletteAPI/internal/weekwindow"
)

type ReactionService struct {
	db                  *pgxpool.Pool
	friendshipService   *FriendshipService
	notificationService *NotificationService
}

func NewReactionService(db *pgxpool.Pool, friendshipService *FriendshipService, notificationService *NotificationService) *ReactionService {
	return &ReactionService{
		db:                  db,
		friendshipService:   friendshipService,
		notificationService: notificationService,
	}
}

// React records an emoji for a friend's current week. One reaction per
// (sender, recipient, week): reacting again replaces the emoji in place.
func (s *ReactionService) React(ctx context.Context, clerkID string, toUserID uuid.UUID, emoji string) (*reaction.Reaction, error) {
	if err := reaction.ValidateEmoji(emoji); err != nil {
		return nil, err
	}

	var fromUserID uuid.UUID
	var senderName string
	err := s.db.QueryRow(ctx,
		`SELECT id, COALESCE(NULLIF(first_name, ''), username) FROM users WHERE clerk_id = $1`, clerkID).
		Scan(&fromUserID, &senderName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	accepted, err := s.friendshipService.AreFriends(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, friendship.ErrNotFriends
	}

	loc, err := getUserLocation(ctx, s.db, fromUserID)
	if err != nil {
		return nil, err
	}
	win := weekwindow.Compute(time.Now().In(loc), loc)

	query := `
	INSERT INTO weekly_reactions (id, from_user_id, to_user_id, week_starting_date, emoji, created_at)
	VALUES ($1, $2, $3, $4::date, $5, NOW())
	ON CONFLICT (from_user_id, to_user_id, week_starting_date)
	DO UPDATE SET emoji = EXCLUDED.emoji, created_at = NOW()
	RETURNING id, from_user_id, to_user_id, week_starting_date::text, emoji, created_at
	`

	r := &reaction.Reaction{}
	err = s.db.QueryRow(ctx, query, uuid.New(), fromUserID, toUserID, win.StartDate, emoji).
		Scan(&r.ID, &r.FromUserID, &r.ToUserID, &r.WeekStartingDate, &r.Emoji, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record reaction: %w", err)
	}

	s.notificationService.Notify(ctx, toUserID, notification.TypeReaction,
		"New reaction",
		fmt.Sprintf("%s reacted %s to your week", senderName, emoji),
		map[string]any{"from_user_id": fromUserID.String(), "emoji": emoji})

	log.Printf("React: %s -> %s %s for week %s", fromUserID, toUserID, emoji, win.StartDate)
	return r, nil
}

// GetReceivedReactions lists reactions left on the caller's current week,
// with sender identity attached.
func (s *ReactionService) GetReceivedReactions(ctx context.Context, clerkID string) ([]*reaction.ReceivedReaction, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	loc, err := getUserLocation(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	win := weekwindow.Compute(time.Now().In(loc), loc)

	query := `
	SELECT r.id, r.from_user_id, r.to_user_id, r.week_starting_date::text, r.emoji, r.created_at,
		u.email, u.username
	FROM weekly_reactions r
	JOIN users u ON u.id = r.from_user_id
	WHERE r.to_user_id = $1 AND r.week_starting_date = $2::date
	ORDER BY r.created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, win.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reactions: %w", err)
	}
	defer rows.Close()

	reactions := []*reaction.ReceivedReaction{}
	for rows.Next() {
		rr := &reaction.ReceivedReaction{}
		err := rows.Scan(&rr.ID, &rr.FromUserID, &rr.ToUserID, &rr.WeekStartingDate, &rr.Emoji, &rr.CreatedAt,
			&rr.FromEmail, &rr.FromUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions = append(reactions, rr)
	}
	return reactions, rows.Err()
}
