package envutil

import (
	"os"
	"strconv"

	"github.com/fypms/backend/internal/pkg/logger"
)

func GetEnv(key, fallback string, log *logger.Logger) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if log != nil {
		log.Debug("env var not set, using fallback", "key", key, "fallback", fallback)
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int, log *logger.Logger) int {
	raw := GetEnv(key, "", log)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Warn("env var not an int, using fallback", "key", key, "value", raw)
		}
		return fallback
	}
	return value
}
