package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validAppConfig(t *testing.T) AppConfig {
	t.Helper()
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "hekto_test",
		AdminEmail:        "admin@example.com",
		AdminPassword:     "password123",
		LowStockThreshold: 5,
		UploadPath:        t.TempDir(),
		UploadURL:         "/uploads",
		ChartCacheTTL:     time.Minute,
		ChartSweepEvery:   time.Minute,
	}
}

func TestValidateApp_Dev(t *testing.T) {
	require.NoError(t, validateApp("dev", validAppConfig(t)))
}

func TestValidateApp_Problems(t *testing.T) {
	cfg := validAppConfig(t)
	cfg.AdminEmail = ""
	cfg.AdminPassword = ""
	cfg.LowStockThreshold = 0
	cfg.CSRFKey = "short"

	err := validateApp("dev", cfg)
	require.Error(t, err)
	for _, want := range []string{"admin_email", "admin_password", "low_stock_threshold", "csrf_key"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateApp_ProdNeedsSecrets(t *testing.T) {
	err := validateApp("prod", validAppConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_key")
	assert.Contains(t, err.Error(), "csrf_key is required")
	assert.Contains(t, err.Error(), "admin_password_hash")

	cfg := validAppConfig(t)
	cfg.SessionKey = strings.Repeat("k", 32)
	cfg.CSRFKey = strings.Repeat("c", 32)
	cfg.AdminPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3bOD5fMNXWp8sCNnQmLdHKi"
	assert.NoError(t, validateApp("prod", cfg))
}

func TestBuildServices(t *testing.T) {
	s, err := buildServices(validAppConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer s.limiter.Stop()

	u, err := s.creds.Verify("ADMIN@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	assert.Equal(t, "/uploads/products/a.png", s.images.URL("products/a.png"))
	assert.NotNil(t, s.renderer)
	assert.NotNil(t, s.schemas)
}

func TestBuildServices_BadCredentials(t *testing.T) {
	cfg := validAppConfig(t)
	cfg.AdminPasswordHash = "not-a-hash"
	_, err := buildServices(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestCSRFMiddleware_IssuesToken(t *testing.T) {
	mw, err := csrfMiddleware("", false, zap.NewNop())
	require.NoError(t, err)

	var token string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = csrf.Token(r)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, rec.Result().Cookies())
}
