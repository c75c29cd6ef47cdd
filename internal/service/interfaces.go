package service

import (
	"context"

	"github.com/recipe-scribe/backend/internal/model"
)

// IContentResolver classifies user queries and produces content to analyze.
type IContentResolver interface {
	Resolve(ctx context.Context, query string) (*Resolved, error)
}

// IExtractionService sends content to the completion provider.
type IExtractionService interface {
	Extract(ctx context.Context, content string) (string, error)
}

// ISessionService manages the authenticated flag behind session cookies.
type ISessionService interface {
	Login(ctx context.Context, password string) (string, error)
	Logout(ctx context.Context, cookieValue string) error
	IsAuthenticated(ctx context.Context, cookieValue string) bool
}

// IRecipeService is the façade over the backing recipe store.
type IRecipeService interface {
	Available() bool
	CreateRecipe(ctx context.Context, fields map[string]interface{}) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, fields map[string]interface{}) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}
