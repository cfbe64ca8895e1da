package config

import "time"

type AuthConfig struct {
	JWT      JWTConfig
	Password PasswordConfig
	Roles    RoleLoaderConfig
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	Audience        []string
}

type PasswordConfig struct {
	BcryptCost int
}

// RoleLoaderConfig controla el reintento y el cache de carga de roles.
// El reintento vive en la frontera de identidad, nunca en el motor de flujo.
type RoleLoaderConfig struct {
	MaxAttempts int
	Backoff     time.Duration
	CacheTTL    time.Duration
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL:  getEnvDuration("JWT_ACCESS_TOKEN_TTL", 8*time.Hour),
			RefreshTokenTTL: getEnvDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "convocatoria"),
			Audience:        getEnvStringSlice("JWT_AUDIENCE", []string{"convocatoria-api"}),
		},
		Password: PasswordConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
		},
		Roles: RoleLoaderConfig{
			MaxAttempts: getEnvInt("ROLE_LOADER_MAX_ATTEMPTS", 3),
			Backoff:     getEnvDuration("ROLE_LOADER_BACKOFF", 500*time.Millisecond),
			CacheTTL:    getEnvDuration("ROLE_CACHE_TTL", 5*time.Minute),
		},
	}
}
