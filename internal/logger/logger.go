// Package logger configura o logger estruturado da aplicação
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New cria o logger raiz da aplicação. Em desenvolvimento usa saída
// colorida legível; caso contrário emite JSON estruturado.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return logger.Level(levelFromEnv())
}

// levelFromEnv lê o nível de log da variável LOG_LEVEL (padrão: info)
func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
