package logging

import (
	"go.uber.org/zap"

	"github.com/recipe-scribe/backend/config"
)

// New builds the process logger: human-readable in development, JSON in
// production.
func New() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
