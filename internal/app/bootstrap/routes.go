// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/civichub/internal/app/civic"
	dashboardfeature "github.com/dalemusser/civichub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/civichub/internal/app/features/errors"
	filesfeature "github.com/dalemusser/civichub/internal/app/features/files"
	healthfeature "github.com/dalemusser/civichub/internal/app/features/health"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/app/system/metrics"
	"github.com/dalemusser/civichub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// CivicHub identifies the caller from the session cookie or a bearer token,
// then mounts the dashboard API, file redirects, health and metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(appCfg.MetricsNamespace, reg)

	engine := civic.New(deps.CivicHubMongoDatabase, deps.Files, civic.Options{
		FanoutLimit: appCfg.FanoutLimit,
		Metrics:     m,
		Log:         logger,
	})

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	r.Use(m.Middleware)

	// Identity: cookie first, bearer token for API clients.
	r.Use(sessionMgr.LoadSessionUser)
	if appCfg.JWTSecret != "" {
		bearer, err := auth.NewBearerVerifier(appCfg.JWTSecret, logger)
		if err != nil {
			logger.Error("bearer verifier init failed", zap.Error(err))
			return nil, err
		}
		r.Use(bearer.Middleware)
	}

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CivicHubMongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(ratelimit.PerClient(ratelimit.Config{
			Requests: appCfg.RateLimitRequests,
			Window:   appCfg.RateLimitWindow,
			Logger:   logger,
		}))

		dashboardHandler := dashboardfeature.NewHandler(engine, logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
	})

	filesHandler := filesfeature.NewHandler(deps.Files, logger)
	r.Mount("/files", filesfeature.Routes(filesHandler))

	// Locally stored uploads are served from disk.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	return r, nil
}
