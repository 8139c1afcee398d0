package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestOptions_dsn(t *testing.T) {
	o := Options{
		Username: "medscan",
		Password: "p@ss word'1",
		Host:     "db.internal",
		Port:     5433,
		Database: "medscan",
		SslMode:  "disable",
	}

	cfg, err := pgxpool.ParseConfig(o.dsn())
	require.NoError(t, err)
	require.Equal(t, "medscan", cfg.ConnConfig.User)
	require.Equal(t, "p@ss word'1", cfg.ConnConfig.Password)
	require.Equal(t, "db.internal", cfg.ConnConfig.Host)
	require.Equal(t, uint16(5433), cfg.ConnConfig.Port)
	require.Equal(t, "medscan", cfg.ConnConfig.Database)
	require.Nil(t, cfg.ConnConfig.TLSConfig)
}
