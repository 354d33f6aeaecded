// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/hekto/internal/app/resources"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/charts"
	"github.com/dalemusser/hekto/internal/app/system/docschema"
	"github.com/dalemusser/hekto/internal/app/system/imagestore"
	"github.com/dalemusser/hekto/internal/app/system/ratelimit"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// services are built once in Startup and shared by BuildHandler and
// Shutdown.
type services struct {
	creds      *auth.AdminCredentials
	images     *imagestore.Images
	chartCache *charts.Cache
	renderer   *charts.Renderer
	sweeper    *workers.CacheSweeper
	limiter    *ratelimit.LoginLimiter
	schemas    *docschema.Validator
}

var (
	svcMu sync.Mutex
	svc   *services
)

func currentServices() *services {
	svcMu.Lock()
	defer svcMu.Unlock()
	return svc
}

// Startup applies config to the process-wide packages and builds the
// long-lived services before the HTTP handler is assembled.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	viewdata.SetBrand(viewdata.Brand{
		Name:        appCfg.BrandName,
		Tagline:     appCfg.BrandTagline,
		Description: appCfg.BrandDescription,
	})
	resources.LoadSharedTemplates()

	s, err := buildServices(appCfg, logger)
	if err != nil {
		return err
	}
	s.sweeper.Start()

	svcMu.Lock()
	svc = s
	svcMu.Unlock()
	return nil
}

func buildServices(appCfg AppConfig, logger *zap.Logger) (*services, error) {
	creds, err := auth.NewAdminCredentials(appCfg.AdminEmail, appCfg.AdminPassword, appCfg.AdminPasswordHash)
	if err != nil {
		return nil, fmt.Errorf("admin credentials: %w", err)
	}
	if appCfg.AdminPasswordHash == "" {
		logger.Warn("admin password configured in plain text; set admin_password_hash")
	}

	uploads, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.UploadPath,
		BaseURL:  appCfg.UploadURL,
	})
	if err != nil {
		return nil, fmt.Errorf("upload storage: %w", err)
	}
	images := imagestore.New(uploads, appCfg.UploadMaxBytes)

	schemas, err := docschema.New()
	if err != nil {
		return nil, err
	}

	sweepEvery := appCfg.ChartSweepEvery
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}

	limiter := ratelimit.NewLoginLimiter()
	limiter.TrustProxy = appCfg.TrustProxy

	cache := charts.NewCache(appCfg.ChartCacheTTL)
	var chartOpts []charts.Option
	if appCfg.ChartAssetsHost != "" {
		chartOpts = append(chartOpts, charts.WithAssetsHost(appCfg.ChartAssetsHost))
	}

	return &services{
		creds:      creds,
		images:     images,
		chartCache: cache,
		renderer:   charts.NewRenderer(cache, chartOpts...),
		sweeper:    workers.NewCacheSweeper("charts", cache, logger, sweepEvery),
		limiter:    limiter,
		schemas:    schemas,
	}, nil
}
