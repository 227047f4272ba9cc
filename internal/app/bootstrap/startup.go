// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/tracing"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// tracingShutdown flushes the trace exporter. Set by Startup.
var tracingShutdown func(context.Context) error

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})

	shutdown, err := tracing.Setup(ctx, serviceName, appCfg.OTLPEndpoint)
	if err != nil {
		logger.Error("tracing setup failed", zap.Error(err))
		return err
	}
	tracingShutdown = shutdown
	if appCfg.OTLPEndpoint != "" {
		logger.Info("tracing enabled", zap.String("endpoint", appCfg.OTLPEndpoint))
	}
	return nil
}
