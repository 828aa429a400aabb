package config

type ServerConfig struct {
	Port        int
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

func loadServerConfig(env *envReader) ServerConfig {
	return ServerConfig{
		Port:        env.integer("SERVER_PORT", 8080),
		LogLevel:    env.str("LOG_LEVEL", "info"),
		LogFormat:   env.str("LOG_FORMAT", "console"),
		CORSOrigins: env.list("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}
}
