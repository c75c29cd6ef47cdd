package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipe-scribe/backend/internal/model"
)

// RecipeFields is the allow-list of writable recipe fields. Input keys not on
// this list are silently dropped before anything reaches the store.
var RecipeFields = map[string]bool{
	"name":             true,
	"source":           true,
	"source_link":      true,
	"prep_time":        true,
	"cook_time":        true,
	"total_time":       true,
	"servings":         true,
	"oven_temperature": true,
	"tin_size":         true,
	"dietary_info":     true,
	"ingredients":      true,
	"method":           true,
	"tips":             true,
	"notes":            true,
	"storage":          true,
	"equipment":        true,
	"variations":       true,
	"make_ahead":       true,
}

// RecipeService forwards CRUD operations to the backing store. A nil db marks
// the store as unconfigured and every operation fails fast.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeService creates a RecipeService instance.
func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{db: db, logger: logger}
}

// Available reports whether a backing store is configured.
func (s *RecipeService) Available() bool {
	return s.db != nil
}

// CreateRecipe filters fields to the allow-list and inserts a new record.
// Both timestamps are stamped by the store layer.
func (s *RecipeService) CreateRecipe(ctx context.Context, fields map[string]interface{}) (*model.Recipe, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}

	recipe, err := recipeFromFields(fields)
	if err != nil {
		return nil, err
	}
	recipe.ID = uuid.New()

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, &StoreError{Op: "create", Details: err.Error()}
	}
	return recipe, nil
}

// ListRecipes returns all recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}

	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, &StoreError{Op: "list", Details: err.Error()}
	}
	return recipes, nil
}

// GetRecipe retrieves one recipe by id.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get", Details: err.Error()}
	}
	return &recipe, nil
}

// UpdateRecipe filters fields to the allow-list and applies them to an
// existing record. Only the update timestamp is restamped.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, fields map[string]interface{}) (*model.Recipe, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return nil, err
	}

	recipe, err := recipeFromFields(fields)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(recipe).Error; err != nil {
		return nil, &StoreError{Op: "update", Details: err.Error()}
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes one recipe by id.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return &StoreError{Op: "delete", Details: err.Error()}
	}
	return nil
}

// FilterRecipeFields drops every key not on the allow-list.
func FilterRecipeFields(fields map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if RecipeFields[key] {
			filtered[key] = value
		}
	}
	return filtered
}

// recipeFromFields builds a Recipe from allow-listed input via a JSON round
// trip, so flexible column types apply the same coercions they use on model
// output.
func recipeFromFields(fields map[string]interface{}) (*model.Recipe, error) {
	data, err := json.Marshal(FilterRecipeFields(fields))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var recipe model.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &recipe, nil
}
