package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-goal-tracker/internal/config"
)

// MustReadEnv reads the configuration from the environment, or from
// the file named by CONFIG_PATH when it is set.
func MustReadEnv() {
	var reader config.Reader = config.NewEnvReader()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}

	if cfg.HTTP.DebugRequests && cfg.Env == config.EnvProd {
		globalLogger.Warn().Msg("HTTP_DEBUG_REQUESTS is ignored in prod")
		cfg.HTTP.DebugRequests = false
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("http_host", cfg.HTTP.Host).
		Str("http_port", cfg.HTTP.Port).
		Bool("debug_requests", cfg.HTTP.DebugRequests).
		Msg("read env")

	config.SetGlobal(cfg)
}
