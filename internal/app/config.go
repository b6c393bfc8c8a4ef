package app

import (
	"time"

	"github.com/fypms/backend/internal/pkg/envutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MediaRoot       string
	AvatarFontPath  string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		JWTSecretKey:    envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
		MediaRoot:       envutil.GetEnv("MEDIA_ROOT", "./media", log),
		AvatarFontPath:  envutil.GetEnv("AVATAR_FONT", "", log),
	}
}
