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
	"platePaletteAPI/internal/variety"
	"platePaletteAPI/internal/weekwindow"
)

type FriendshipService struct {
	db                  *pgxpool.Pool
	notificationService *NotificationService
}

func NewFriendshipService(db *pgxpool.Pool, notificationService *NotificationService) *FriendshipService {
	return &FriendshipService{db: db, notificationService: notificationService}
}

const friendshipColumns = `id, user_id, friend_id, status, requested_at, responded_at, created_at`

func scanFriendship(row pgx.Row) (*friendship.Friendship, error) {
	f := &friendship.Friendship{}
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.RequestedAt, &f.RespondedAt, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SendRequest creates a pending friendship addressed by email. Any existing
// row for the unordered pair, pending, accepted or rejected, blocks a new
// request; a rejected row blocks permanently.
func (s *FriendshipService) SendRequest(ctx context.Context, clerkID string, recipientEmail string) (*friendship.Friendship, error) {
	var requesterID uuid.UUID
	var requesterName string
	err := s.db.QueryRow(ctx, `SELECT id, COALESCE(NULLIF(first_name, ''), username) FROM users WHERE clerk_id = $1`, clerkID).
		Scan(&requesterID, &requesterName)
	if err != nil {
		log.Printf("SendRequest: failed to find requester with clerk_id %s: %v", clerkID, err)
		return nil, ErrUserNotFound
	}

	var recipientID uuid.UUID
	err = s.db.QueryRow(ctx, `SELECT id FROM users WHERE LOWER(email) = LOWER($1)`, recipientEmail).Scan(&recipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}

	if err := friendship.ValidateRequest(requesterID, recipientID); err != nil {
		return nil, err
	}

	var exists bool
	checkQuery := `
	SELECT EXISTS(
		SELECT 1 FROM friendships
		WHERE (user_id = $1 AND friend_id = $2)
		   OR (user_id = $2 AND friend_id = $1)
	)
	`
	if err := s.db.QueryRow(ctx, checkQuery, requesterID, recipientID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing friendship: %w", err)
	}
	if exists {
		return nil, friendship.ErrAlreadyExists
	}

	// The unordered-pair unique index closes the race between two
	// simultaneous requests; the second insert fails instead of duplicating.
	insertQuery := `
	INSERT INTO friendships (id, user_id, friend_id, status, requested_at, created_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW())
	RETURNING ` + friendshipColumns

	f, err := scanFriendship(s.db.QueryRow(ctx, insertQuery, uuid.New(), requesterID, recipientID, friendship.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	s.notificationService.Notify(ctx, recipientID, notification.TypeFriendRequest,
		"New friend request",
		fmt.Sprintf("%s wants to see your weekly variety", requesterName),
		map[string]any{"request_id": f.ID.String()})

	log.Printf("SendRequest: %s -> %s pending", requesterID, recipientID)
	return f, nil
}

// Respond transitions a pending request. Only the designated recipient may
// respond; responding to a non-pending row is a conflict, never a silent
// overwrite.
func (s *FriendshipService) Respond(ctx context.Context, clerkID string, requestID uuid.UUID, accept bool) (*friendship.Friendship, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	f, err := scanFriendship(s.db.QueryRow(ctx,
		`SELECT `+friendshipColumns+` FROM friendships WHERE id = $1`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, friendship.ErrNotRecipient
		}
		return nil, fmt.Errorf("failed to load friend request: %w", err)
	}

	if err := f.RespondableBy(userID); err != nil {
		return nil, err
	}

	status := friendship.StatusRejected
	if accept {
		status = friendship.StatusAccepted
	}

	// Conditional write: the status guard in WHERE keeps a concurrent
	// responder from transitioning the row twice.
	updateQuery := `
	UPDATE friendships
	SET status = $2, responded_at = NOW()
	WHERE id = $1 AND friend_id = $3 AND status = $4
	RETURNING ` + friendshipColumns

	updated, err := scanFriendship(s.db.QueryRow(ctx, updateQuery, requestID, status, userID, friendship.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, friendship.ErrNotPending
		}
		return nil, fmt.Errorf("failed to respond to friend request: %w", err)
	}

	if accept {
		var recipientName string
		if err := s.db.QueryRow(ctx, `SELECT COALESCE(NULLIF(first_name, ''), username) FROM users WHERE id = $1`, userID).Scan(&recipientName); err == nil {
			s.notificationService.Notify(ctx, updated.UserID, notification.TypeFriendAccepted,
				"Friend request accepted",
				fmt.Sprintf("%s accepted your friend request", recipientName),
				map[string]any{"friend_id": userID.String()})
		}
	}

	log.Printf("Respond: request %s -> %s", requestID, status)
	return updated, nil
}

// AreFriends is the visibility gate: true only for an accepted row, in
// either direction.
func (s *FriendshipService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var accepted bool
	query := `
	SELECT EXISTS(
		SELECT 1 FROM friendships
		WHERE ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
		AND status = 'accepted'
	)
	`
	if err := s.db.QueryRow(ctx, query, a, b).Scan(&accepted); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return accepted, nil
}

// GetPendingRequests lists incoming pending requests for the recipient.
func (s *FriendshipService) GetPendingRequests(ctx context.Context, clerkID string) ([]*friendship.PendingRequest, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT f.id, f.user_id, f.friend_id, f.status, f.requested_at, f.responded_at, f.created_at,
		u.email, u.username
	FROM friendships f
	JOIN users u ON u.id = f.user_id
	WHERE f.friend_id = $1 AND f.status = 'pending'
	ORDER BY f.requested_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending requests: %w", err)
	}
	defer rows.Close()

	requests := []*friendship.PendingRequest{}
	for rows.Next() {
		r := &friendship.PendingRequest{}
		err := rows.Scan(&r.ID, &r.UserID, &r.FriendID, &r.Status, &r.RequestedAt, &r.RespondedAt, &r.CreatedAt,
			&r.RequesterEmail, &r.RequesterUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// GetSentRequests lists the caller's still-pending outgoing requests.
func (s *FriendshipService) GetSentRequests(ctx context.Context, clerkID string) ([]*friendship.SentRequest, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT f.id, f.user_id, f.friend_id, f.status, f.requested_at, f.responded_at, f.created_at,
		u.email
	FROM friendships f
	JOIN users u ON u.id = f.friend_id
	WHERE f.user_id = $1 AND f.status = 'pending'
	ORDER BY f.requested_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent requests: %w", err)
	}
	defer rows.Close()

	requests := []*friendship.SentRequest{}
	for rows.Next() {
		r := &friendship.SentRequest{}
		err := rows.Scan(&r.ID, &r.UserID, &r.FriendID, &r.Status, &r.RequestedAt, &r.RespondedAt, &r.CreatedAt,
			&r.RecipientEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sent request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// GetFriendsWithProgress returns each accepted friend's current-week variety
// count, goal, and the viewer's existing reaction. The window is the
// viewer's: "this week" means the week the viewer is looking at.
func (s *FriendshipService) GetFriendsWithProgress(ctx context.Context, clerkID string) ([]*friendship.FriendProgress, error) {
	viewerID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	loc, err := getUserLocation(ctx, s.db, viewerID)
	if err != nil {
		return nil, err
	}
	win := weekwindow.Compute(time.Now().In(loc), loc)

	query := `
	SELECT u.id, u.email, u.username, u.first_name, u.weekly_goal,
		COUNT(DISTINCT fl.fdc_id) AS foods_count,
		r.id, r.emoji, r.created_at
	FROM users u
	INNER JOIN friendships f ON (
		(f.user_id = u.id AND f.friend_id = $1) OR (f.friend_id = u.id AND f.user_id = $1)
	) AND f.status = 'accepted'
	LEFT JOIN food_logs fl ON fl.user_id = u.id
		AND fl.logged_date >= $2::date AND fl.logged_date <= $3::date
	LEFT JOIN weekly_reactions r ON r.from_user_id = $1 AND r.to_user_id = u.id
		AND r.week_starting_date = $2::date
	WHERE u.id != $1
	GROUP BY u.id, u.email, u.username, u.first_name, u.weekly_goal, r.id, r.emoji, r.created_at
	ORDER BY u.username
	`

	rows, err := s.db.Query(ctx, query, viewerID, win.StartDate, win.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friends with progress: %w", err)
	}
	defer rows.Close()

	friends := []*friendship.FriendProgress{}
	for rows.Next() {
		fp := &friendship.FriendProgress{Window: win}
		var reactionID *uuid.UUID
		var emoji *string
		var reactedAt *time.Time

		err := rows.Scan(&fp.FriendID, &fp.Email, &fp.Username, &fp.FirstName, &fp.WeeklyGoal,
			&fp.FoodsCount, &reactionID, &emoji, &reactedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend progress: %w", err)
		}

		fp.GoalMet = fp.WeeklyGoal > 0 && fp.FoodsCount >= fp.WeeklyGoal
		if reactionID != nil && emoji != nil {
			fp.MyReaction = &reaction.Reaction{
				ID:               *reactionID,
				FromUserID:       viewerID,
				ToUserID:         fp.FriendID,
				WeekStartingDate: win.StartDate,
				Emoji:            *emoji,
				CreatedAt:        *reactedAt,
			}
		}
		friends = append(friends, fp)
	}
	return friends, rows.Err()
}

// GetFriendVariety is the single-friend view of the variety tracker. It is
// the authorization boundary for reading another user's progress: callers
// that are not accepted friends get ErrNotFriends and no data at all.
func (s *FriendshipService) GetFriendVariety(ctx context.Context, clerkID string, friendID uuid.UUID) (*variety.Summary, error) {
	viewerID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.AreFriends(ctx, viewerID, friendID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, friendship.ErrNotFriends
	}

	var weeklyGoal int
	if err := s.db.QueryRow(ctx, `SELECT weekly_goal FROM users WHERE id = $1`, friendID).Scan(&weeklyGoal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load friend's goal: %w", err)
	}

	loc, err := getUserLocation(ctx, s.db, viewerID)
	if err != nil {
		return nil, err
	}
	win := weekwindow.Compute(time.Now().In(loc), loc)

	query := `
	SELECT fdc_id, logged_date::text
	FROM food_logs
	WHERE user_id = $1 AND logged_date >= $2::date AND logged_date <= $3::date
	`
	rows, err := s.db.Query(ctx, query, friendID, win.StartDate, win.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend's food logs: %w", err)
	}
	defer rows.Close()

	var foods []variety.LoggedFood
	for rows.Next() {
		var f variety.LoggedFood
		if err := rows.Scan(&f.FdcID, &f.LoggedDate); err != nil {
			return nil, fmt.Errorf("failed to scan food log: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := variety.Summarize(foods, win, weeklyGoal)
	return &summary, nil
}

func (s *FriendshipService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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
