package common

import (
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/rally-manager-go/log"
	"github.com/mpapenbr/rally-manager-go/pkg/config"
	"github.com/mpapenbr/rally-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/rally-manager-go/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the process logger from the CLI config and
// installs it as default.
func SetupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		if config.LogFilter != "" {
			logger = log.NewWithFilters(
				os.Stderr,
				ParseLogLevel(config.LogLevel, log.InfoLevel),
				config.LogFilter,
				log.WithCaller(true),
				log.AddCallerSkip(1))
		} else {
			logger = log.New(
				os.Stderr,
				ParseLogLevel(config.LogLevel, log.InfoLevel),
				log.WithCaller(true),
				log.AddCallerSkip(1))
		}
	default:
		logger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
	return logger
}

// OpenPool waits for the database to be reachable and creates the
// connection pool.
func OpenPool(logger *log.Logger) *pgxpool.Pool {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}
	return postgres.InitWithURL(
		config.DB,
		postgres.WithTracer(logger, ParseLogLevel(config.SQLLogLevel, log.DebugLevel)))
}
