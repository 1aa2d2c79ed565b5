package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platePaletteAPI/handlers"
	"platePaletteAPI/internal/foodlog"
	"platePaletteAPI/internal/friendship"
	"platePaletteAPI/internal/nutrient"
	"platePaletteAPI/services"
	"platePaletteAPI/tests/helpers"
)

// TestSocialFlow walks the whole loop: two users sign up, one logs foods,
// they become friends, and the other reacts to the week.
func TestSocialFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)
	userService := services.NewUserService(pool)
	foodService := services.NewFoodService(pool)
	friendshipService := services.NewFriendshipService(pool, notificationService)
	reactionService := services.NewReactionService(pool, friendshipService, notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	suffix := time.Now().Format("20060102150405")
	aliceClerkID := "user_test_alice_" + suffix
	bobClerkID := "user_test_bob_" + suffix

	ctx := context.Background()

	// Step 1: both users sign up via the Clerk webhook
	for _, clerkID := range []string{aliceClerkID, bobClerkID} {
		payload := helpers.MockClerkWebhookPayload("user.created", clerkID, "")
		req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		webhookHandler.HandleClerkWebhook(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, "Webhook should succeed")
	}

	alice, err := userService.GetUserByClerkID(ctx, aliceClerkID)
	require.NoError(t, err)
	bob, err := userService.GetUserByClerkID(ctx, bobClerkID)
	require.NoError(t, err)

	aliceID := uuid.MustParse(alice.ID)
	bobID := uuid.MustParse(bob.ID)

	// Step 2: Alice logs a food
	logReq := &foodlog.LogFoodRequest{
		FdcID:        173944,
		FoodName:     "Apples, raw, with skin",
		FoodDataType: "SR Legacy",
		FoodNutrients: []nutrient.Measurement{
			{NutrientID: 1079, Value: 2.4, Unit: "g"},
		},
	}
	entry, err := foodService.LogFood(ctx, aliceClerkID, logReq)
	require.NoError(t, err)
	assert.Equal(t, 173944, entry.FdcID)

	// Step 3: logging the same food again this week is a conflict
	_, err = foodService.LogFood(ctx, aliceClerkID, logReq)
	assert.ErrorIs(t, err, services.ErrAlreadyLogged)

	// Step 4: a batch skips the duplicate but logs the novel food
	batch, err := foodService.LogFoods(ctx, aliceClerkID, []foodlog.LogFoodRequest{
		*logReq,
		{FdcID: 170379, FoodName: "Broccoli, raw", FoodDataType: "SR Legacy"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.LoggedCount)
	assert.Equal(t, foodlog.BatchDuplicate, batch.Items[0].Status)
	assert.Equal(t, foodlog.BatchLogged, batch.Items[1].Status)

	weekly, err := foodService.GetWeeklyLog(ctx, aliceClerkID)
	require.NoError(t, err)
	assert.Equal(t, 2, weekly.Summary.UniqueCount)
	assert.Len(t, weekly.Days, 7)

	// Step 5: Bob cannot see Alice's week before they are friends
	_, err = friendshipService.GetFriendVariety(ctx, bobClerkID, aliceID)
	assert.ErrorIs(t, err, friendship.ErrNotFriends)

	// Step 6: Bob sends a friend request by email, Alice accepts
	request, err := friendshipService.SendRequest(ctx, bobClerkID, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, friendship.StatusPending, request.Status)

	// A second request for the same pair conflicts, in either direction
	_, err = friendshipService.SendRequest(ctx, aliceClerkID, bob.Email)
	assert.ErrorIs(t, err, friendship.ErrAlreadyExists)

	// Only the recipient may respond
	_, err = friendshipService.Respond(ctx, bobClerkID, request.ID, true)
	assert.ErrorIs(t, err, friendship.ErrNotRecipient)

	accepted, err := friendshipService.Respond(ctx, aliceClerkID, request.ID, true)
	require.NoError(t, err)
	assert.Equal(t, friendship.StatusAccepted, accepted.Status)

	// Responding twice is a conflict
	_, err = friendshipService.Respond(ctx, aliceClerkID, request.ID, false)
	assert.ErrorIs(t, err, friendship.ErrNotPending)

	// Step 7: Bob now sees Alice's progress
	summary, err := friendshipService.GetFriendVariety(ctx, bobClerkID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.UniqueCount)

	friends, err := friendshipService.GetFriendsWithProgress(ctx, bobClerkID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, aliceID, friends[0].FriendID)
	assert.Equal(t, 2, friends[0].FoodsCount)
	assert.Nil(t, friends[0].MyReaction)

	// Step 8: Bob reacts, then changes his mind; the reaction is replaced
	first, err := reactionService.React(ctx, bobClerkID, aliceID, "🥦")
	require.NoError(t, err)

	second, err := reactionService.React(ctx, bobClerkID, aliceID, "🍎")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "Re-reacting should replace, not duplicate")
	assert.Equal(t, "🍎", second.Emoji)

	received, err := reactionService.GetReceivedReactions(ctx, aliceClerkID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "🍎", received[0].Emoji)
	assert.Equal(t, bobID, received[0].FromUserID)

	// Step 9: reacting to a non-friend is forbidden
	_, err = reactionService.React(ctx, aliceClerkID, uuid.New(), "🍎")
	assert.ErrorIs(t, err, friendship.ErrNotFriends)
}

// TestRejectedRequestIsTerminal covers the permanent-block semantics of a
// rejected friendship.
func TestRejectedRequestIsTerminal(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)
	userService := services.NewUserService(pool)
	friendshipService := services.NewFriendshipService(pool, notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	suffix := time.Now().Format("20060102150405")
	carolClerkID := "user_test_carol_" + suffix
	daveClerkID := "user_test_dave_" + suffix

	ctx := context.Background()

	for _, clerkID := range []string{carolClerkID, daveClerkID} {
		payload := helpers.MockClerkWebhookPayload("user.created", clerkID, "")
		req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		webhookHandler.HandleClerkWebhook(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	carol, err := userService.GetUserByClerkID(ctx, carolClerkID)
	require.NoError(t, err)
	dave, err := userService.GetUserByClerkID(ctx, daveClerkID)
	require.NoError(t, err)

	request, err := friendshipService.SendRequest(ctx, carolClerkID, dave.Email)
	require.NoError(t, err)

	rejected, err := friendshipService.Respond(ctx, daveClerkID, request.ID, false)
	require.NoError(t, err)
	assert.Equal(t, friendship.StatusRejected, rejected.Status)

	// The rejected row blocks any new request between the pair
	_, err = friendshipService.SendRequest(ctx, carolClerkID, dave.Email)
	assert.ErrorIs(t, err, friendship.ErrAlreadyExists)

	_, err = friendshipService.SendRequest(ctx, daveClerkID, carol.Email)
	assert.ErrorIs(t, err, friendship.ErrAlreadyExists)
}
