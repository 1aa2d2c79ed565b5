package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"platePaletteAPI/internal/friendship"
	"platePaletteAPI/internal/reaction"
	"platePaletteAPI/internal/user"
	"platePaletteAPI/middleware"
	"platePaletteAPI/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfileByClerkID(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.userService.DeleteUserByClerkID(ctx, clerkID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	log.Printf("DeleteAccount: deleted user with clerk_id %s", clerkID)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *UserHandler) SearchUserByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		respondWithError(w, http.StatusBadRequest, "Search query parameter 'email' is required")
		return
	}

	profile, err := h.userService.FindUserByEmail(ctx, email)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps the service layer's sentinel errors onto HTTP
// statuses. Anything unrecognized is a 500 with a generic message so
// internals never leak to the client.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrLogEntryNotFound):
		respondWithError(w, http.StatusNotFound, "Food log entry not found")
	case errors.Is(err, services.ErrAlreadyLogged):
		respondWithError(w, http.StatusConflict, "Food already logged this week")
	case errors.Is(err, friendship.ErrAlreadyExists):
		respondWithError(w, http.StatusConflict, "A friendship or request already exists between these users")
	case errors.Is(err, friendship.ErrNotPending):
		respondWithError(w, http.StatusConflict, "Friend request has already been responded to")
	case errors.Is(err, friendship.ErrSelfFriendship):
		respondWithError(w, http.StatusBadRequest, "Cannot send a friend request to yourself")
	case errors.Is(err, friendship.ErrNotRecipient):
		respondWithError(w, http.StatusForbidden, "Only the recipient can respond to this request")
	case errors.Is(err, friendship.ErrNotFriends):
		respondWithError(w, http.StatusForbidden, "You are not friends with this user")
	case errors.Is(err, reaction.ErrInvalidEmoji):
		respondWithError(w, http.StatusBadRequest, "Unsupported reaction emoji")
	case errors.Is(err, user.ErrInvalidWeeklyGoal):
		respondWithError(w, http.StatusBadRequest, "Weekly goal must be between 5 and 100")
	case errors.Is(err, user.ErrInvalidTimezone):
		respondWithError(w, http.StatusBadRequest, "Invalid IANA timezone")
	default:
		log.Printf("Unhandled service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
