package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipe-scribe/backend/internal/service"
)

// RecipeHandler handles recipe CRUD requests.
type RecipeHandler struct {
	recipes service.IRecipeService
	logger  *zap.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance.
func NewRecipeHandler(recipes service.IRecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: logger}
}

// CreateRecipe saves a new recipe. Unknown fields in the body are dropped.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipe": recipe})
}

// ListRecipes returns all recipes, newest first.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns one recipe by id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// UpdateRecipe applies allow-listed fields to an existing recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipe": recipe})
}

// DeleteRecipe removes one recipe by id.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recipe deleted successfully"})
}

// respondError maps store façade errors onto the HTTP taxonomy.
func (h *RecipeHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recipe store is not configured"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimPrefix(err.Error(), "invalid input: ")})
	default:
		var storeErr *service.StoreError
		details := err.Error()
		if errors.As(err, &storeErr) {
			details = storeErr.Details
		}
		h.logger.Error("recipe store operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Recipe store operation failed",
			"details": details,
		})
	}
}
