package logout_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/hekto/internal/app/features/logout"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return logout.NewHandler(sm, logger)
}

func TestServeLogout_Redirects(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeLogout(rec, testutil.NewAdminRequest(http.MethodPost, "/admin/logout"))

	rec.AssertRedirect(t, "/admin?flash=signed_out")
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring session cookie, got %+v", cookies)
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewAdminRequest(http.MethodPost, "/admin/logout")
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/admin?flash=signed_out" {
		t.Errorf("HX-Redirect = %q", got)
	}
}

func TestServeLogout_NoSession(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeLogout(rec, testutil.NewRequest(http.MethodGet, "/admin/logout"))

	rec.AssertRedirect(t, "/admin?flash=signed_out")
}
