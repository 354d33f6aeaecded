// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds Hekto's service-specific configuration.
//
// Values come from environment variables (HEKTO_*), config files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings: ports, TLS, logging level, CORS and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // e.g. mongodb://localhost:27017
	MongoDatabase       string        // database name within MongoDB
	MongoMaxPoolSize    uint64        // max connection pool size
	MongoConnectTimeout time.Duration // connect + initial ping budget

	// Session management configuration
	SessionKey    string        // secret for signing session cookies
	SessionName   string        // cookie name (default hekto-session)
	SessionDomain string        // cookie domain (blank means current host)
	SessionMaxAge time.Duration // admin session lifetime
	CSRFKey       string        // 32-byte key for admin form tokens

	// The single admin account
	AdminEmail        string
	AdminPassword     string // hashed at startup; prefer AdminPasswordHash
	AdminPasswordHash string // bcrypt hash (hektoctl hash-password)

	// Login throttling
	TrustProxy bool // client IP from X-Forwarded-For/X-Real-IP

	// Inventory
	LowStockThreshold int // stock below this counts as low

	// Product image uploads
	UploadPath     string // directory on disk
	UploadURL      string // public URL prefix
	UploadMaxBytes int64

	// Dashboard charts
	ChartCacheTTL   time.Duration
	ChartAssetsHost string // blank uses go-echarts' default CDN
	ChartSweepEvery time.Duration

	// Context timeouts for MongoDB work
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Storefront copy
	BrandName        string
	BrandTagline     string
	BrandDescription string
}
