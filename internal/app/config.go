package app

import (
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AllowedOrigins string
	SeedFile       string
	RedisRequired  bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AllowedOrigins: utils.GetEnv("ALLOWED_ORIGINS", "", log),
		SeedFile:       utils.GetEnv("SEED_FILE", "", log),
		RedisRequired:  utils.GetEnvAsBool("REDIS_REQUIRED", false, log),
	}
}
