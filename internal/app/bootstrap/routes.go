// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"
	"time"

	apifeature "github.com/dalemusser/hekto/internal/app/features/api"
	dashboardfeature "github.com/dalemusser/hekto/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/hekto/internal/app/features/errors"
	healthfeature "github.com/dalemusser/hekto/internal/app/features/health"
	homefeature "github.com/dalemusser/hekto/internal/app/features/home"
	loginfeature "github.com/dalemusser/hekto/internal/app/features/login"
	logoutfeature "github.com/dalemusser/hekto/internal/app/features/logout"
	ordersfeature "github.com/dalemusser/hekto/internal/app/features/orders"
	productsfeature "github.com/dalemusser/hekto/internal/app/features/products"
	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Public: "/" landing page, "/catalog", "/health", "/static", uploads and
// POST /api/orders. Admin: "/admin" login plus the dashboard, products and
// orders pages, all behind the session gate and CSRF protection. The admin
// JSON API lives under /api/admin and is gated by the session alone.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	s := currentServices()
	if s == nil {
		return nil, errors.New("bootstrap: Startup has not run")
	}

	secure := coreCfg.Env == "prod"
	sessionKey := appCfg.SessionKey
	if sessionKey == "" {
		sessionKey = string(securecookie.GenerateRandomKey(32))
		logger.Warn("session_key not set; using a random key, sessions end on restart")
	}
	sessionMgr, err := auth.NewSessionManager(sessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	products := productstore.New(deps.HektoMongoDatabase)
	orders := orderstore.New(deps.HektoMongoDatabase)

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Loads the SessionUser into context when the admin is signed in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.HektoMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadPath))

	homeHandler := homefeature.NewHandler(products, s.images.URL, appCfg.LowStockThreshold, errLog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	dashboardHandler := dashboardfeature.NewHandler(orders, products, s.renderer, appCfg.LowStockThreshold, errLog, logger)

	// Admin HTML: every form posts a CSRF token.
	csrfMW, err := csrfMiddleware(appCfg.CSRFKey, secure, logger)
	if err != nil {
		return nil, err
	}
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(csrfMW)

		loginHandler := loginfeature.NewHandler(sessionMgr, s.creds, s.limiter, logger)
		ar.Mount("/", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler))

		ar.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		productsHandler := productsfeature.NewHandler(products, s.images, appCfg.LowStockThreshold, errLog, logger)
		ar.Mount("/products", productsfeature.Routes(productsHandler, sessionMgr))

		ordersHandler := ordersfeature.NewHandler(orders, products, s.images.URL, errLog, logger)
		ar.Mount("/orders", ordersfeature.Routes(ordersHandler, sessionMgr))
	})

	apiHandler := apifeature.NewHandler(orders, products, s.images, dashboardHandler, s.schemas, logger)
	r.Mount("/api", apifeature.Routes(apiHandler, sessionMgr))

	logger.Info("routes ready",
		zap.Bool("secure_cookies", secure),
		zap.String("uploads", appCfg.UploadURL),
		zap.Duration("session_max_age", appCfg.SessionMaxAge.Round(time.Minute)))
	return r, nil
}

// csrfMiddleware builds the gorilla/csrf protector for the admin forms.
// Outside prod the site usually runs over plain HTTP, so requests are marked
// as such for the origin checks.
func csrfMiddleware(key string, secure bool, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	authKey := []byte(key)
	if key == "" {
		authKey = securecookie.GenerateRandomKey(32)
		if authKey == nil {
			return nil, errors.New("bootstrap: could not generate csrf key")
		}
		logger.Warn("csrf_key not set; using a random key")
	}

	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/admin"),
		csrf.CookieName("hekto-csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsfeature.RenderPage(w, r, http.StatusForbidden, "Forbidden",
				"Your form has expired. Please go back, reload the page and try again.", "/admin")
		})),
	)

	if secure {
		return protect, nil
	}
	return func(next http.Handler) http.Handler {
		inner := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}, nil
}
