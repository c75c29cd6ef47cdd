package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipe-scribe/backend/internal/api"
	"github.com/recipe-scribe/backend/internal/middleware"
	"github.com/recipe-scribe/backend/internal/service"
)

// Options carries everything the route table needs.
type Options struct {
	Auth         *api.AuthHandler
	AI           *api.AIHandler
	Recipes      *api.RecipeHandler
	Sessions     service.ISessionService
	LoginLimiter *middleware.LoginRateLimiter
	CORSOrigins  []string
	PublicDir    string
	Logger       *zap.Logger
}

// SetupRouter configures the application routes.
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))

	// Static shells; all data is fetched client-side.
	publicDir := opts.PublicDir
	if publicDir == "" {
		publicDir = "public"
	}
	router.StaticFile("/", publicDir+"/index.html")
	router.StaticFile("/styles.css", publicDir+"/styles.css")
	router.GET("/recipes/:id", func(c *gin.Context) {
		c.File(publicDir + "/recipe.html")
	})
	router.GET("/import", func(c *gin.Context) {
		c.File(publicDir + "/import.html")
	})

	// Session gate
	router.POST("/login", opts.LoginLimiter.Middleware(), opts.Auth.Login)
	router.POST("/logout", opts.Auth.Logout)
	router.GET("/auth-status", opts.Auth.AuthStatus)

	// Extraction
	router.POST("/query-ai", middleware.RequireAuth(opts.Sessions), opts.AI.Query)

	// Recipe store; reads are public, writes are gated
	recipes := router.Group("/api/recipes")
	{
		recipes.GET("", opts.Recipes.ListRecipes)
		recipes.GET("/:id", opts.Recipes.GetRecipe)
		recipes.POST("", middleware.RequireAuth(opts.Sessions), opts.Recipes.CreateRecipe)
		recipes.PUT("/:id", middleware.RequireAuth(opts.Sessions), opts.Recipes.UpdateRecipe)
		recipes.DELETE("/:id", middleware.RequireAuth(opts.Sessions), opts.Recipes.DeleteRecipe)
	}

	return router
}
