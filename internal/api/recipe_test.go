package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipeRequiresSession(t *testing.T) {
	db := openRecipeDB(t)
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, db)

	w := doJSON(t, r, http.MethodPost, "/api/recipes", gin.H{"name": "Tea"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	db.Table("recipes").Count(&count)
	assert.Zero(t, count)
}

func TestCreateAndFetchRecipe(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, openRecipeDB(t))
	cookie := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/recipes", gin.H{
		"name":        "Victoria Sponge",
		"servings":    8,
		"ingredients": []string{"flour", "butter"},
		"is_admin":    true,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	created := decodeBody(t, w)["recipe"].(map[string]interface{})
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Victoria Sponge", created["name"])
	assert.Equal(t, "8", created["servings"])
	assert.NotContains(t, created, "is_admin")

	// Reads are public.
	w = doJSON(t, r, http.MethodGet, "/api/recipes/"+id, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeBody(t, w)["recipe"].(map[string]interface{})
	assert.Equal(t, "Victoria Sponge", fetched["name"])
	assert.Equal(t, []interface{}{"flour", "butter"}, fetched["ingredients"])
}

func TestListRecipesPublic(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, openRecipeDB(t))
	cookie := login(t, r)

	for _, name := range []string{"One", "Two"} {
		w := doJSON(t, r, http.MethodPost, "/api/recipes", gin.H{"name": name}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/recipes", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipes := decodeBody(t, w)["recipes"].([]interface{})
	assert.Len(t, recipes, 2)
}

func TestGetRecipeNotFound(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, openRecipeDB(t))

	w := doJSON(t, r, http.MethodGet, "/api/recipes/33333333-3333-3333-3333-333333333333", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "recipe not found", decodeBody(t, w)["error"])
}

func TestUpdateRecipe(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, openRecipeDB(t))
	cookie := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/recipes", gin.H{"name": "Scones"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["recipe"].(map[string]interface{})["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/api/recipes/"+id, gin.H{"name": "Cheese Scones"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/recipes/"+id, gin.H{"name": "Cheese Scones"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)["recipe"].(map[string]interface{})
	assert.Equal(t, "Cheese Scones", updated["name"])
}

func TestDeleteRecipe(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, openRecipeDB(t))
	cookie := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/recipes", gin.H{"name": "Porridge"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["recipe"].(map[string]interface{})["id"].(string)

	w = doJSON(t, r, http.MethodDelete, "/api/recipes/"+id, nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/recipes/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe deleted successfully", decodeBody(t, w)["message"])

	w = doJSON(t, r, http.MethodGet, "/api/recipes/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeStoreNotConfigured(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, nil)
	cookie := login(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/recipes", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Recipe store is not configured", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/recipes", gin.H{"name": "Tea"}, cookie)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateRecipeMalformedBody(t *testing.T) {
	r := newTestServer(t, &mockResolver{}, &mockExtractor{}, openRecipeDB(t))
	cookie := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/recipes", nil, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, w)["error"])
}
