// Package catalog is the USDA FoodData Central client. It is the only place
// raw catalog payloads enter the system: nutrient measurements are validated
// and normalized into tagged records here, before the ranker or the food log
// ever see them.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"platePaletteAPI/internal/nutrient"
)

const defaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

const DefaultPageSize = 10

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient reads USDA_API_KEY from the environment. BaseURL is overridable
// for tests via the second constructor.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     os.Getenv("USDA_API_KEY"),
		baseURL:    baseURL,
	}
}

// Food is a catalog record with its nutrients already normalized.
type Food struct {
	FdcID         int                    `json:"fdcId"`
	Description   string                 `json:"description"`
	DataType      string                 `json:"dataType"`
	FoodNutrients []nutrient.Measurement `json:"foodNutrients"`
}

type SearchResponse struct {
	Foods       []Food `json:"foods"`
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}

// SearchFoods queries the catalog by free text. Zero results is not an error.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) (*SearchResponse, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	endpoint := fmt.Sprintf("%s/foods/search?query=%s&pageSize=%d&api_key=%s",
		c.baseURL, url.QueryEscape(query), pageSize, url.QueryEscape(c.apiKey))

	var result SearchResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	for i := range result.Foods {
		result.Foods[i].FoodNutrients = sanitizeMeasurements(result.Foods[i].FoodNutrients)
	}
	return &result, nil
}

// GetFoodDetails fetches a single catalog record by FDC ID.
func (c *Client) GetFoodDetails(ctx context.Context, fdcID int) (*Food, error) {
	endpoint := fmt.Sprintf("%s/food/%s?api_key=%s",
		c.baseURL, strconv.Itoa(fdcID), url.QueryEscape(c.apiKey))

	// The details endpoint nests nutrients differently from search.
	var raw struct {
		FdcID         int    `json:"fdcId"`
		Description   string `json:"description"`
		DataType      string `json:"dataType"`
		FoodNutrients []struct {
			Nutrient struct {
				ID       int    `json:"id"`
				UnitName string `json:"unitName"`
			} `json:"nutrient"`
			Amount float64 `json:"amount"`
		} `json:"foodNutrients"`
	}
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("catalog food details failed: %w", err)
	}

	food := &Food{
		FdcID:       raw.FdcID,
		Description: raw.Description,
		DataType:    raw.DataType,
	}
	for _, n := range raw.FoodNutrients {
		food.FoodNutrients = append(food.FoodNutrients, nutrient.Measurement{
			NutrientID: n.Nutrient.ID,
			Value:      n.Amount,
			Unit:       n.Nutrient.UnitName,
		})
	}
	food.FoodNutrients = sanitizeMeasurements(food.FoodNutrients)
	return food, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from catalog", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// sanitizeMeasurements drops records the ranker cannot score: missing
// nutrient IDs, non-positive values, NaN-ish garbage from branded foods.
func sanitizeMeasurements(ms []nutrient.Measurement) []nutrient.Measurement {
	valid := ms[:0]
	for _, m := range ms {
		if m.NutrientID <= 0 || m.Value <= 0 || m.Value != m.Value {
			continue
		}
		valid = append(valid, m)
	}
	return valid
}
