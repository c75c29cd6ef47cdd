package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recipe-scribe/backend/internal/api"
	"github.com/recipe-scribe/backend/internal/middleware"
	"github.com/recipe-scribe/backend/internal/model"
	"github.com/recipe-scribe/backend/internal/router"
	"github.com/recipe-scribe/backend/internal/service"
)

const testPassword = "correct horse"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockResolver returns a canned resolution and records the query it saw.
type mockResolver struct {
	resolved  *service.Resolved
	err       error
	lastQuery string
}

func (m *mockResolver) Resolve(_ context.Context, query string) (*service.Resolved, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.resolved, nil
}

// mockExtractor returns a canned reply and counts invocations.
type mockExtractor struct {
	reply       string
	err         error
	calls       int
	lastContent string
}

func (m *mockExtractor) Extract(_ context.Context, content string) (string, error) {
	m.calls++
	m.lastContent = content
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func openRecipeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestServer wires the full route table around the supplied extraction
// mocks and a sqlite-backed recipe store. recipeDB may be nil to simulate an
// unconfigured store.
func newTestServer(t *testing.T, resolver service.IContentResolver, extractor service.IExtractionService, recipeDB *gorm.DB) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()

	sessions := service.NewSessionService(
		service.NewMemorySessionStore(service.SessionTTL),
		"test-secret", testPassword, "", logger)
	recipes := service.NewRecipeService(recipeDB, logger)

	return router.SetupRouter(router.Options{
		Auth:         api.NewAuthHandler(sessions, logger),
		AI:           api.NewAIHandler(resolver, extractor, logger),
		Recipes:      api.NewRecipeHandler(recipes, logger),
		Sessions:     sessions,
		LoginLimiter: middleware.NewLoginRateLimiter(nil),
		PublicDir:    t.TempDir(),
		Logger:       logger,
	})
}

// doJSON performs one request with an optional JSON body and session cookie.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// login authenticates against the route table and returns the session cookie.
func login(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/login", gin.H{"password": testPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}
