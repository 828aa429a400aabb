package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig holds the Postgres connection and pool settings.
type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	SSLMode          string
	ApplicationName  string
	StatementTimeout time.Duration
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// DSN renders a lib/pq keyword/value connection string. A positive
// StatementTimeout is applied server side to every session.
func (dc DatabaseConfig) DSN() string {
	parts := []string{
		"host=" + dc.Host,
		fmt.Sprintf("port=%d", dc.Port),
		"user=" + dc.User,
		"password=" + quoteDSN(dc.Password),
		"dbname=" + dc.Name,
		"sslmode=" + dc.SSLMode,
	}
	if dc.ApplicationName != "" {
		parts = append(parts, "application_name="+quoteDSN(dc.ApplicationName))
	}
	if dc.StatementTimeout > 0 {
		parts = append(parts, fmt.Sprintf("options='-c statement_timeout=%d'", dc.StatementTimeout.Milliseconds()))
	}
	return strings.Join(parts, " ")
}

// quoteDSN quotes values containing spaces or quotes.
func quoteDSN(v string) string {
	if v == "" || strings.ContainsAny(v, ` '\`) {
		r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
		return "'" + r.Replace(v) + "'"
	}
	return v
}

func loadDatabaseConfig(env *envReader) DatabaseConfig {
	return DatabaseConfig{
		Host:             env.str("DB_HOST", "localhost"),
		Port:             env.integer("DB_PORT", 5432),
		User:             env.str("DB_USER", "postgres"),
		Password:         env.str("DB_PASSWORD", "postgres"),
		Name:             env.str("DB_NAME", "talentgate"),
		SSLMode:          env.str("DB_SSL_MODE", "disable"),
		ApplicationName:  env.str("DB_APPLICATION_NAME", "talentgate-api"),
		StatementTimeout: env.duration("DB_STATEMENT_TIMEOUT", 10*time.Second),
		MaxOpenConns:     env.integer("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     env.integer("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  env.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}
