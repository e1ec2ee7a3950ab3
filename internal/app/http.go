package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-goal-tracker/internal/config"
	"github.com/adanyl0v/go-goal-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-goal-tracker/internal/repository/postgres"
	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	if httpCfg.DebugRequests {
		globalLogger.Warn().Msg("debug request logging enabled")
		router.Use(v1.NewDebugRequestMiddleware(globalLogger))
	}
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends syscall.SIGTERM, kill -2 sends syscall.SIGINT.
	// syscall.SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Dur("timeout", httpCfg.ShutdownTimeout).
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	categories := postgres.NewCategoryRepository(globalLogger, globalPostgresPool)
	goals := postgres.NewGoalRepository(globalLogger, globalPostgresPool)
	tasks := postgres.NewTaskRepository(globalLogger, globalPostgresPool)

	v1Handler := v1.New(
		globalLogger,
		services.NewAuthService(
			globalLogger,
			globalPostgresPool,
			jwtCfg.Issuer,
			[]byte(jwtCfg.SigningKey),
			jwtCfg.AccessTokenTTL,
			jwtCfg.RefreshTokenTTL,
		),
		services.NewSessionService(globalLogger, globalPostgresPool),
		services.NewCategoryService(globalLogger, categories),
		services.NewGoalService(globalLogger, goals),
		services.NewTaskService(globalLogger, tasks, categories, goals),
	)
	v1.RegisterRoutes(router.Group("/api/v1"), v1Handler)
}
