package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipe-scribe/backend/internal/service"
)

// AIHandler handles recipe extraction requests.
type AIHandler struct {
	resolver  service.IContentResolver
	extractor service.IExtractionService
	logger    *zap.Logger
}

// NewAIHandler creates a new AIHandler instance.
func NewAIHandler(resolver service.IContentResolver, extractor service.IExtractionService, logger *zap.Logger) *AIHandler {
	return &AIHandler{resolver: resolver, extractor: extractor, logger: logger}
}

type queryRequest struct {
	Query string `json:"query"`
}

// Query resolves the submitted text, runs it through the completion provider
// and returns prose plus any embedded recipe JSON.
func (h *AIHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	resolved, err := h.resolver.Resolve(c.Request.Context(), req.Query)
	if err != nil {
		var fetchErr *service.UpstreamFetchError
		if errors.As(err, &fetchErr) {
			h.logger.Error("URL fetch failed", zap.String("url", fetchErr.URL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to retrieve content from the provided URL. Please ensure it is a valid and accessible URL.",
				"details": fetchErr.Details,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	// Already-structured input skips the model round trip entirely.
	if resolved.BypassAI {
		c.JSON(http.StatusOK, gin.H{"response": "", "recipeJson": resolved.ParsedJSON})
		return
	}

	raw, err := h.extractor.Extract(c.Request.Context(), resolved.Content)
	if err != nil {
		var extractErr *service.ExtractionError
		details := err.Error()
		if errors.As(err, &extractErr) {
			details = extractErr.Details
		}
		h.logger.Error("extraction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error processing your query with Gemini",
			"details": details,
		})
		return
	}

	result := service.ParseReply(raw)
	c.JSON(http.StatusOK, gin.H{"response": result.Text, "recipeJson": result.JSON})
}
