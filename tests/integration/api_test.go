package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platePaletteAPI/handlers"
	modelUser "platePaletteAPI/internal/user"
	"platePaletteAPI/middleware"
	"platePaletteAPI/services"
	"platePaletteAPI/tests/helpers"
)

// TestProfileEndpoints exercises the HTTP layer end to end: webhook signup,
// profile fetch, validation failures, account deletion.
func TestProfileEndpoints(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	userHandler := handlers.NewUserHandler(userService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_api_" + time.Now().Format("20060102150405")

	payload := helpers.MockClerkWebhookPayload("user.created", clerkID, "")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	authed := func(r *http.Request) *http.Request {
		ctx := context.WithValue(r.Context(), middleware.ClerkIDKey, clerkID)
		return r.WithContext(ctx)
	}

	// Fetch the profile and check the signup defaults
	req = authed(httptest.NewRequest(http.MethodGet, "/api/v1/user", nil))
	rr = httptest.NewRecorder()
	userHandler.GetProfile(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile modelUser.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, modelUser.DefaultWeeklyGoal, profile.WeeklyGoal)
	assert.Equal(t, modelUser.DefaultTimezone, profile.Timezone)

	// An out-of-range goal is a 400
	req = authed(httptest.NewRequest(http.MethodPut, "/api/v1/user/update-profile",
		strings.NewReader(`{"weeklyGoal": 3}`)))
	rr = httptest.NewRecorder()
	userHandler.UpdateProfile(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// A bogus timezone is a 400
	req = authed(httptest.NewRequest(http.MethodPut, "/api/v1/user/update-profile",
		strings.NewReader(`{"timezone": "Mars/Olympus_Mons"}`)))
	rr = httptest.NewRecorder()
	userHandler.UpdateProfile(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// A valid update sticks
	req = authed(httptest.NewRequest(http.MethodPut, "/api/v1/user/update-profile",
		strings.NewReader(`{"weeklyGoal": 30, "timezone": "Europe/Sofia"}`)))
	rr = httptest.NewRecorder()
	userHandler.UpdateProfile(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	ctx := context.Background()
	updated, err := userService.GetUserByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.WeeklyGoal)
	assert.Equal(t, "Europe/Sofia", updated.Timezone)

	// Unauthenticated requests never reach the service
	req = httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	rr = httptest.NewRecorder()
	userHandler.GetProfile(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Delete and verify
	req = authed(httptest.NewRequest(http.MethodDelete, "/api/v1/user/delete-account", nil))
	rr = httptest.NewRecorder()
	userHandler.DeleteAccount(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	_, err = userService.GetUserByClerkID(ctx, clerkID)
	assert.Error(t, err, "User should be deleted")
}
