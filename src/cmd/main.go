package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	cfg "potholeserv/src/configuration"
	server "potholeserv/src/server"
)

func main() {
	// Pick up .env if present; real env always wins.
	_ = godotenv.Load()

	config := cfg.ReadProperties()

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().Timestamp().Str("service", config.Server.Name).
		Logger()

	if config.Mail.Host != "" {
		logger.Info().Str("smtp_host", config.Mail.Host).Str("from", config.Mail.FromAddress()).Msg("mail relay configured")
	}

	if err := server.RunServer(config, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
