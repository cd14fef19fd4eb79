package postgres

import (
	"net"
	"net/url"

	"currency-converter/pkg/config"
)

func BuildDSN(cfg config.Config) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Postgres.User, cfg.Postgres.Password),
		Host:     net.JoinHostPort(cfg.Postgres.Host, cfg.Postgres.Port),
		Path:     "/" + cfg.Postgres.DBName,
		RawQuery: url.Values{"sslmode": {cfg.Postgres.SSLMode}}.Encode(),
	}
	return dsn.String()
}
