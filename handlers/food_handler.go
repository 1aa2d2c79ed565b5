package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"platePaletteAPI/internal/catalog"
	"platePaletteAPI/internal/foodlog"
	"platePaletteAPI/internal/sharelog"
	"platePaletteAPI/middleware"
	"platePaletteAPI/services"
)

type FoodHandler struct {
	foodService   *services.FoodService
	catalogClient *catalog.Client
}

func NewFoodHandler(foodService *services.FoodService, catalogClient *catalog.Client) *FoodHandler {
	return &FoodHandler{
		foodService:   foodService,
		catalogClient: catalogClient,
	}
}

// SearchFoods proxies the USDA catalog search so the API key never ships to
// clients.
func (h *FoodHandler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Search query parameter 'query' is required")
		return
	}

	pageSize := 25
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			pageSize = n
		}
	}

	result, err := h.catalogClient.SearchFoods(ctx, query, pageSize)
	if err != nil {
		log.Printf("SearchFoods: catalog search for %q failed: %v", query, err)
		respondWithError(w, http.StatusBadGateway, "Food catalog is unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetTopNutrients returns the most significant nutrients for a catalog food,
// with the human explanation of why each matters.
func (h *FoodHandler) GetTopNutrients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	fdcID, err := strconv.Atoi(mux.Vars(r)["fdcId"])
	if err != nil || fdcID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid food ID")
		return
	}

	food, err := h.catalogClient.GetFoodDetails(ctx, fdcID)
	if err != nil {
		log.Printf("GetTopNutrients: catalog lookup for %d failed: %v", fdcID, err)
		respondWithError(w, http.StatusBadGateway, "Food catalog is unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"fdcId":        food.FdcID,
		"description":  food.Description,
		"topNutrients": h.foodService.TopNutrients(food.FoodNutrients),
	})
}

func (h *FoodHandler) LogFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req foodlog.LogFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FdcID <= 0 || req.FoodName == "" {
		respondWithError(w, http.StatusBadRequest, "fdcId and foodName are required")
		return
	}

	entry, err := h.foodService.LogFood(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *FoodHandler) LogFoodsBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req foodlog.LogFoodsBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Foods) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one food is required")
		return
	}
	for _, f := range req.Foods {
		if f.FdcID <= 0 || f.FoodName == "" {
			respondWithError(w, http.StatusBadRequest, "Every food needs fdcId and foodName")
			return
		}
	}

	result, err := h.foodService.LogFoods(ctx, clerkID, req.Foods)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *FoodHandler) GetWeeklyLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	weekly, err := h.foodService.GetWeeklyLog(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, weekly)
}

func (h *FoodHandler) DeleteFoodLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	logID, err := uuid.Parse(mux.Vars(r)["logId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}

	if err := h.foodService.DeleteFoodLog(ctx, clerkID, logID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *FoodHandler) RecordShare(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req sharelog.RecordShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Platform == "" {
		req.Platform = "unknown"
	}

	share, err := h.foodService.RecordShare(ctx, clerkID, req.Platform)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, share)
}

// RecomputeLoggedDates is the operator-only corrective pass over logged_date.
// Guarded by a shared secret header instead of Clerk auth so it can run from
// a cron job.
func (h *FoodHandler) RecomputeLoggedDates(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("ADMIN_TASK_SECRET")
	if secret == "" || r.Header.Get("X-Admin-Secret") != secret {
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	updated, err := h.foodService.RecomputeLoggedDates(ctx)
	if err != nil {
		log.Printf("RecomputeLoggedDates: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Recompute failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
