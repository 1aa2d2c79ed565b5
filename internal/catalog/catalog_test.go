package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platePaletteAPI/internal/nutrient"
)

func TestSearchFoods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foods/search", r.URL.Path)
		assert.Equal(t, "broccoli", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"foods": [{
				"fdcId": 170379,
				"description": "Broccoli, raw",
				"dataType": "SR Legacy",
				"foodNutrients": [
					{"nutrientId": 1162, "value": 89.2, "unitName": "MG"},
					{"nutrientId": 1079, "value": 2.6, "unitName": "G"},
					{"nutrientId": 0, "value": 5, "unitName": "G"},
					{"nutrientId": 1003, "value": -1, "unitName": "G"}
				]
			}],
			"totalHits": 1
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	resp, err := client.SearchFoods(context.Background(), "broccoli", 0)
	require.NoError(t, err)

	require.Len(t, resp.Foods, 1)
	food := resp.Foods[0]
	assert.Equal(t, 170379, food.FdcID)
	assert.Equal(t, "Broccoli, raw", food.Description)

	// Invalid records (zero ID, negative value) are dropped at the boundary.
	assert.Equal(t, []nutrient.Measurement{
		{NutrientID: 1162, Value: 89.2, Unit: "MG"},
		{NutrientID: 1079, Value: 2.6, Unit: "G"},
	}, food.FoodNutrients)
}

func TestSearchFoodsZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": [], "totalHits": 0}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	resp, err := client.SearchFoods(context.Background(), "xyzzy", 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Foods)
}

func TestSearchFoodsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	_, err := client.SearchFoods(context.Background(), "apple", 10)
	assert.Error(t, err)
}

func TestGetFoodDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/food/170379", r.URL.Path)

		w.Write([]byte(`{
			"fdcId": 170379,
			"description": "Broccoli, raw",
			"dataType": "SR Legacy",
			"foodNutrients": [
				{"nutrient": {"id": 1162, "unitName": "MG"}, "amount": 89.2}
			]
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	food, err := client.GetFoodDetails(context.Background(), 170379)
	require.NoError(t, err)

	assert.Equal(t, "Broccoli, raw", food.Description)
	require.Len(t, food.FoodNutrients, 1)
	assert.Equal(t, 1162, food.FoodNutrients[0].NutrientID)
	assert.Equal(t, 89.2, food.FoodNutrients[0].Value)
}
