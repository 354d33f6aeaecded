// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/ratelimit"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// MsgInvalidCredentials is shown for any failed sign-in.
const MsgInvalidCredentials = "Invalid email or password!"

// DashboardPath is where a successful sign-in lands by default.
const DashboardPath = "/admin/dashboard"

type verifier interface {
	Verify(email, password string) (auth.SessionUser, error)
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Creds      verifier
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
	Render     viewdata.RenderFunc
}

func NewHandler(sessionMgr *auth.SessionManager, creds *auth.AdminCredentials, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Creds:      creds,
		Limiter:    limiter,
		Render:     viewdata.RenderTemplate,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

// ServeLogin handles GET /admin. Signed-in admins go straight on.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if u, ok := auth.CurrentUser(r); ok && u.IsAdmin() {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", DashboardPath), http.StatusSeeOther)
		return
	}
	h.Render(w, r, "admin_login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Admin Login", "/"),
		ReturnURL: ret,
	})
}

// HandleLoginPost handles POST /admin.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Could not read the form.", "", "")
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	ret := r.PostFormValue("return")

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login throttled",
				zap.String("ip", h.Limiter.ClientIP(r)),
				zap.String("email", email))
			h.renderError(w, r, http.StatusTooManyRequests, reason, email, ret)
			return
		}
	}

	if email == "" || password == "" {
		h.renderError(w, r, http.StatusUnauthorized, MsgInvalidCredentials, email, ret)
		return
	}

	user, err := h.Creds.Verify(email, password)
	if err != nil {
		if !errors.Is(err, auth.ErrBadCredentials) {
			h.Log.Error("verify admin credentials", zap.Error(err))
		}
		h.Log.Info("admin login failed", zap.String("email", email))
		h.renderError(w, r, http.StatusUnauthorized, MsgInvalidCredentials, email, ret)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Log.Error("save session", zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, "Could not start your session. Please try again.", email, ret)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(r, email)
	}

	h.Log.Info("admin signed in", zap.String("email", user.Email))
	http.Redirect(w, r, urlutil.SafeReturn(ret, "", DashboardPath), http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg, email, ret string) {
	viewdata.RenderStatus(h.Render, w, r, status, "admin_login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Admin Login", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	})
}
