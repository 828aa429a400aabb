package config

import "time"

type AuthConfig struct {
	JWT    JWTConfig
	Cookie CookieConfig
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       []string
}

type CookieConfig struct {
	AccessTokenName string
}

func loadAuthConfig(env *envReader) AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      env.str("JWT_SECRET_KEY", ""),
			AccessTokenTTL: env.duration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
			Issuer:         env.str("JWT_ISSUER", "talentgate"),
			Audience:       env.list("JWT_AUDIENCE", []string{"talentgate-api"}),
		},
		Cookie: CookieConfig{
			AccessTokenName: env.str("COOKIE_ACCESS_TOKEN_NAME", "access_token"),
		},
	}
}
