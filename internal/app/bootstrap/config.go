// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/hekto/internal/app/system/imagestore"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Hekto.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, admin_email, etc.
//   - Environment variables: HEKTO_MONGO_URI, HEKTO_ADMIN_EMAIL, etc.
//   - Command-line flags: --mongo_uri, --admin_email, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hekto", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and ping timeout"},

	// Sessions and CSRF
	{Name: "session_key", Default: "", Desc: "Session signing key (32+ chars; random per process when blank in dev)"},
	{Name: "session_name", Default: "hekto-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Admin session lifetime"},
	{Name: "csrf_key", Default: "", Desc: "CSRF key, exactly 32 bytes (random per process when blank in dev)"},

	// Admin account
	{Name: "admin_email", Default: "admin@example.com", Desc: "Admin login email"},
	{Name: "admin_password", Default: "password123", Desc: "Admin password (ignored when admin_password_hash is set)"},
	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the admin password"},

	// Login throttling
	{Name: "trust_proxy", Default: false, Desc: "Take client IPs from X-Forwarded-For/X-Real-IP (only behind a proxy that sets them)"},

	// Inventory
	{Name: "low_stock_threshold", Default: 5, Desc: "Products with stock below this are flagged"},

	// Uploads
	{Name: "upload_path", Default: "./uploads", Desc: "Directory for product images"},
	{Name: "upload_url", Default: "/uploads", Desc: "URL prefix for product images"},
	{Name: "upload_max_bytes", Default: int(imagestore.DefaultMaxBytes), Desc: "Max product image size in bytes"},

	// Charts
	{Name: "chart_cache_ttl", Default: "1m", Desc: "How long rendered dashboard charts are reused"},
	{Name: "chart_assets_host", Default: "", Desc: "Host serving echarts.min.js (blank uses the go-echarts CDN)"},
	{Name: "chart_sweep_interval", Default: "5m", Desc: "How often expired charts are dropped"},

	// Timeouts
	{Name: "timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "Timeout for list queries and dashboards"},
	{Name: "timeout_long", Default: timeouts.DefaultLong.String(), Desc: "Timeout for imports and seeding"},

	// Storefront
	{Name: "brand_name", Default: viewdata.DefaultBrand.Name, Desc: "Storefront brand name"},
	{Name: "brand_tagline", Default: viewdata.DefaultBrand.Tagline, Desc: "Storefront tagline"},
	{Name: "brand_description", Default: viewdata.DefaultBrand.Description, Desc: "Storefront description paragraph"},
}

// LoadConfig loads WAFFLE core config and Hekto's app config.
//
// Precedence is flags > env (HEKTO_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HEKTO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		AdminEmail:        strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword:     appValues.String("admin_password"),
		AdminPasswordHash: strings.TrimSpace(appValues.String("admin_password_hash")),

		TrustProxy: appValues.Bool("trust_proxy"),

		LowStockThreshold: appValues.Int("low_stock_threshold"),

		UploadPath:     appValues.String("upload_path"),
		UploadURL:      appValues.String("upload_url"),
		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		ChartCacheTTL:   appValues.Duration("chart_cache_ttl", time.Minute),
		ChartAssetsHost: appValues.String("chart_assets_host"),
		ChartSweepEvery: appValues.Duration("chart_sweep_interval", 5*time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		BrandName:        appValues.String("brand_name"),
		BrandTagline:     appValues.String("brand_tagline"),
		BrandDescription: appValues.String("brand_description"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot work before anything
// connects to MongoDB.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

// validateApp holds the checks that do not need the logger.
func validateApp(env string, appCfg AppConfig) error {
	var problems []string

	if appCfg.MongoDatabase == "" {
		problems = append(problems, "mongo_database is required")
	}
	if appCfg.AdminEmail == "" {
		problems = append(problems, "admin_email is required")
	}
	if appCfg.AdminPassword == "" && appCfg.AdminPasswordHash == "" {
		problems = append(problems, "admin_password or admin_password_hash is required")
	}
	if appCfg.LowStockThreshold <= 0 {
		problems = append(problems, "low_stock_threshold must be positive")
	}
	if appCfg.UploadMaxBytes < 0 {
		problems = append(problems, "upload_max_bytes cannot be negative")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		problems = append(problems, "csrf_key must be exactly 32 bytes")
	}

	if env == "prod" {
		if len(appCfg.SessionKey) < 32 {
			problems = append(problems, "session_key must be at least 32 characters in prod")
		}
		if appCfg.CSRFKey == "" {
			problems = append(problems, "csrf_key is required in prod")
		}
		if appCfg.AdminPasswordHash == "" {
			problems = append(problems, "admin_password_hash is required in prod")
		}
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
