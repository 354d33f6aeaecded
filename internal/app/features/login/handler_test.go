package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/hekto/internal/app/features/login"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/ratelimit"
	"github.com/dalemusser/hekto/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.RenderRecorder) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	creds, err := auth.NewAdminCredentials("admin@example.com", "password123", "")
	if err != nil {
		t.Fatalf("NewAdminCredentials: %v", err)
	}
	h := login.NewHandler(sm, creds, limiter, logger)
	rr := &testutil.RenderRecorder{}
	h.Render = rr.Render
	return h, rr
}

func postLogin(h *login.Handler, form url.Values) *testutil.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := testutil.NewRecorder()
	h.HandleLoginPost(rec, req)
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"email": {"Admin@Example.com"}, "password": {"password123"}})

	rec.AssertRedirect(t, login.DashboardPath)
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h, rr := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"nope"}, "return": {"/admin/orders"}})

	rec.AssertStatus(t, http.StatusUnauthorized)
	call := rr.Last()
	if call.Name != "admin_login" {
		t.Fatalf("rendered %q, want admin_login", call.Name)
	}
	rec.AssertContains(t, "admin_login")
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no session cookie expected on failure")
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	h, rr := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"email": {"admin@example.com"}})

	rec.AssertStatus(t, http.StatusUnauthorized)
	if rr.Last().Name != "admin_login" {
		t.Errorf("rendered %q", rr.Last().Name)
	}
}

func TestHandleLoginPost_UnsafeReturnIgnored(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{
		"email":    {"admin@example.com"},
		"password": {"password123"},
		"return":   {"https://evil.example.net/steal"},
	})

	rec.AssertRedirect(t, login.DashboardPath)
}

func TestHandleLoginPost_Throttled(t *testing.T) {
	limiter := ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	defer limiter.Stop()
	h, _ := newTestHandler(t, limiter)

	bad := url.Values{"email": {"admin@example.com"}, "password": {"wrong"}}
	postLogin(h, bad)
	postLogin(h, bad)

	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"password123"}})
	rec.AssertStatus(t, http.StatusTooManyRequests)
}

func TestHandleLoginPost_ThrottleIsPerAddress(t *testing.T) {
	limiter := ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	defer limiter.Stop()
	h, _ := newTestHandler(t, limiter)

	post := func(remote string, form url.Values) *testutil.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = remote
		rec := testutil.NewRecorder()
		h.HandleLoginPost(rec, req)
		return rec
	}

	bad := url.Values{"email": {"admin@example.com"}, "password": {"wrong"}}
	for i := 0; i < 3; i++ {
		post("203.0.113.9:4000", bad)
	}

	rec := post("198.51.100.20:5000", url.Values{"email": {"admin@example.com"}, "password": {"password123"}})
	rec.AssertRedirect(t, login.DashboardPath)
}

func TestServeLogin_AlreadySignedIn(t *testing.T) {
	h, rr := newTestHandler(t, nil)

	req := testutil.NewAdminRequest(http.MethodGet, "/admin")
	rec := testutil.NewRecorder()
	h.ServeLogin(rec, req)

	rec.AssertRedirect(t, login.DashboardPath)
	if len(rr.Calls) != 0 {
		t.Error("login form should not render for a signed-in admin")
	}
}

func TestServeLogin_RendersForm(t *testing.T) {
	h, rr := newTestHandler(t, nil)

	req := testutil.NewRequest(http.MethodGet, "/admin?return=%2Fadmin%2Forders")
	rec := testutil.NewRecorder()
	h.ServeLogin(rec, req)

	if rr.Last().Name != "admin_login" {
		t.Fatalf("rendered %q", rr.Last().Name)
	}
}
