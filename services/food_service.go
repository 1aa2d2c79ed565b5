package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"platePaletteAPI/internal/foodlog"
	"platePaletteAPI/internal/nutrient"
	"platePaletteAPI/internal/sharelog"
	"platePaletteAPI/internal/variety"
	"platePaletteAPI/internal/weekwindow"
)

// ErrAlreadyLogged is the conflict outcome for a food already counted this
// week. Callers turn it into a friendly acknowledgment, not a retry.
var ErrAlreadyLogged = errors.New("food already logged this week")

var ErrLogEntryNotFound = errors.New("food log entry not found")

type FoodService struct {
	db *pgxpool.Pool
}

func NewFoodService(db *pgxpool.Pool) *FoodService {
	return &FoodService{db: db}
}

const foodLogColumns = `id, user_id, fdc_id, food_name, food_data_type, food_nutrients, logged_date::text, logged_at, created_at`

func scanFoodLog(row pgx.Row) (*foodlog.Entry, error) {
	e := &foodlog.Entry{}
	var nutrientsJSON []byte
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.FdcID,
		&e.FoodName,
		&e.FoodDataType,
		&nutrientsJSON,
		&e.LoggedDate,
		&e.LoggedAt,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(nutrientsJSON) > 0 {
		if err := json.Unmarshal(nutrientsJSON, &e.FoodNutrients); err != nil {
			log.Printf("scanFoodLog: bad nutrients payload on %s: %v", e.ID, err)
		}
	}
	return e, nil
}

// currentWindow derives the caller's week window and the local "now" used
// for logged_date. The server's clock plus the stored user timezone is the
// single source of truth; client dates are never trusted.
func (s *FoodService) currentWindow(ctx context.Context, userID uuid.UUID) (weekwindow.Window, time.Time, error) {
	loc, err := getUserLocation(ctx, s.db, userID)
	if err != nil {
		return weekwindow.Window{}, time.Time{}, err
	}
	now := time.Now().In(loc)
	return weekwindow.Compute(now, loc), now, nil
}

func (s *FoodService) weekEntries(ctx context.Context, userID uuid.UUID, win weekwindow.Window) ([]*foodlog.Entry, error) {
	query := `
	SELECT ` + foodLogColumns + `
	FROM food_logs
	WHERE user_id = $1
		AND logged_date >= $2::date
		AND logged_date <= $3::date
	ORDER BY logged_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, win.StartDate, win.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week's food logs: %w", err)
	}
	defer rows.Close()

	var entries []*foodlog.Entry
	for rows.Next() {
		e, err := scanFoodLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food log: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func asLoggedFoods(entries []*foodlog.Entry) []variety.LoggedFood {
	foods := make([]variety.LoggedFood, 0, len(entries))
	for _, e := range entries {
		foods = append(foods, variety.LoggedFood{FdcID: e.FdcID, LoggedDate: e.LoggedDate})
	}
	return foods
}

func (s *FoodService) insertEntry(ctx context.Context, userID uuid.UUID, req *foodlog.LogFoodRequest, now time.Time) (*foodlog.Entry, error) {
	nutrientsJSON, err := json.Marshal(req.FoodNutrients)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nutrients: %w", err)
	}

	query := `
	INSERT INTO food_logs (id, user_id, fdc_id, food_name, food_data_type, food_nutrients, logged_date, logged_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, NOW())
	RETURNING ` + foodLogColumns

	entry, err := scanFoodLog(s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		userID,
		req.FdcID,
		req.FoodName,
		req.FoodDataType,
		nutrientsJSON,
		weekwindow.FormatDate(now),
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert food log: %w", err)
	}
	return entry, nil
}

// LogFood checks the current week for the food and inserts it if novel.
// The duplicate check and insert are two store calls; the unique index on
// (user, food, week) is the backstop when two of these race.
func (s *FoodService) LogFood(ctx context.Context, clerkID string, req *foodlog.LogFoodRequest) (*foodlog.Entry, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	win, now, err := s.currentWindow(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.weekEntries(ctx, userID, win)
	if err != nil {
		return nil, err
	}

	novel, _ := variety.PartitionNovel(asLoggedFoods(entries), win, []int{req.FdcID})
	if len(novel) == 0 {
		return nil, ErrAlreadyLogged
	}

	return s.insertEntry(ctx, userID, req, now)
}

// LogFoods inserts the novel subset of a batch and reports per-item status.
// Duplicates within the batch itself count as already logged. If nothing is
// novel, no write happens at all.
func (s *FoodService) LogFoods(ctx context.Context, clerkID string, reqs []foodlog.LogFoodRequest) (*foodlog.BatchLogResult, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	win, now, err := s.currentWindow(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.weekEntries(ctx, userID, win)
	if err != nil {
		return nil, err
	}

	candidates := make([]int, 0, len(reqs))
	for _, r := range reqs {
		candidates = append(candidates, r.FdcID)
	}
	novel, _ := variety.PartitionNovel(asLoggedFoods(entries), win, candidates)

	novelSet := make(map[int]struct{}, len(novel))
	for _, id := range novel {
		novelSet[id] = struct{}{}
	}

	result := &foodlog.BatchLogResult{Window: win}
	for i := range reqs {
		item := foodlog.BatchLogItem{FdcID: reqs[i].FdcID, FoodName: reqs[i].FoodName, Status: foodlog.BatchDuplicate}

		if _, isNovel := novelSet[reqs[i].FdcID]; isNovel {
			delete(novelSet, reqs[i].FdcID) // first occurrence wins within the batch
			if _, err := s.insertEntry(ctx, userID, &reqs[i], now); err != nil {
				return nil, err
			}
			item.Status = foodlog.BatchLogged
			result.LoggedCount++
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// GetWeeklyLog returns the current week's entries grouped by day plus the
// variety summary.
func (s *FoodService) GetWeeklyLog(ctx context.Context, clerkID string) (*foodlog.WeeklyLogResponse, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var weeklyGoal int
	if err := s.db.QueryRow(ctx, `SELECT weekly_goal FROM users WHERE id = $1`, userID).Scan(&weeklyGoal); err != nil {
		return nil, fmt.Errorf("failed to load weekly goal: %w", err)
	}

	win, _, err := s.currentWindow(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.weekEntries(ctx, userID, win)
	if err != nil {
		return nil, err
	}

	resp := &foodlog.WeeklyLogResponse{
		Window:  win,
		Summary: variety.Summarize(asLoggedFoods(entries), win, weeklyGoal),
	}

	byDate := make(map[string][]foodlog.Entry)
	for _, e := range entries {
		byDate[e.LoggedDate] = append(byDate[e.LoggedDate], *e)
	}
	for _, date := range win.DayDates() {
		resp.Days = append(resp.Days, foodlog.DayLog{Date: date, Entries: byDate[date]})
	}
	return resp, nil
}

// DeleteFoodLog removes one entry; only the owner's rows are reachable.
func (s *FoodService) DeleteFoodLog(ctx context.Context, clerkID string, logID uuid.UUID) error {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx, `DELETE FROM food_logs WHERE id = $1 AND user_id = $2`, logID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete food log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLogEntryNotFound
	}
	return nil
}

// TopNutrients surfaces the "why this food matters" explanation for a
// nutrient collection already validated at the catalog boundary.
func (s *FoodService) TopNutrients(measurements []nutrient.Measurement) []nutrient.Ranked {
	return nutrient.TopSignificant(measurements, nutrient.DefaultTopK)
}

// RecordShare writes the share-event trail for the current week.
func (s *FoodService) RecordShare(ctx context.Context, clerkID string, platform string) (*sharelog.ShareLog, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var weeklyGoal int
	if err := s.db.QueryRow(ctx, `SELECT weekly_goal FROM users WHERE id = $1`, userID).Scan(&weeklyGoal); err != nil {
		return nil, fmt.Errorf("failed to load weekly goal: %w", err)
	}

	win, _, err := s.currentWindow(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.weekEntries(ctx, userID, win)
	if err != nil {
		return nil, err
	}
	summary := variety.Summarize(asLoggedFoods(entries), win, weeklyGoal)

	query := `
	INSERT INTO share_logs (id, user_id, week_starting_date, week_ending_date, foods_count, goal_count, platform, shared_at)
	VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, NOW())
	RETURNING id, user_id, week_starting_date::text, week_ending_date::text, foods_count, goal_count, platform, shared_at
	`

	share := &sharelog.ShareLog{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, win.StartDate, win.EndDate, summary.UniqueCount, weeklyGoal, platform).Scan(
		&share.ID,
		&share.UserID,
		&share.WeekStartingDate,
		&share.WeekEndingDate,
		&share.FoodsCount,
		&share.GoalCount,
		&share.Platform,
		&share.SharedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record share: %w", err)
	}
	return share, nil
}

// RecomputeLoggedDates is the corrective batch pass: re-derives logged_date
// from logged_at under each owner's stored timezone and fixes rows that
// drifted (entries written before server-side date derivation existed, or
// before a user corrected their timezone). Returns the number updated.
func (s *FoodService) RecomputeLoggedDates(ctx context.Context) (int, error) {
	query := `
	SELECT f.id, f.logged_date::text, f.logged_at, u.timezone
	FROM food_logs f
	JOIN users u ON u.id = f.user_id
	ORDER BY f.logged_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch food logs: %w", err)
	}

	type fix struct {
		id      uuid.UUID
		correct string
	}
	var fixes []fix

	for rows.Next() {
		var (
			id         uuid.UUID
			storedDate string
			loggedAt   time.Time
			tz         string
		)
		if err := rows.Scan(&id, &storedDate, &loggedAt, &tz); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan food log: %w", err)
		}

		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("RecomputeLoggedDates: skipping %s, invalid timezone %q", id, tz)
			continue
		}

		correct := weekwindow.FormatDate(loggedAt.In(loc))
		if correct != storedDate {
			fixes = append(fixes, fix{id: id, correct: correct})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, f := range fixes {
		if _, err := s.db.Exec(ctx, `UPDATE food_logs SET logged_date = $2::date WHERE id = $1`, f.id, f.correct); err != nil {
			return 0, fmt.Errorf("failed to update logged_date for %s: %w", f.id, err)
		}
		log.Printf("RecomputeLoggedDates: corrected %s to %s", f.id, f.correct)
	}
	return len(fixes), nil
}

func (s *FoodService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
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
