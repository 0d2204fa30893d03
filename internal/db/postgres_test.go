package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/projecttracker/internal/config"
)

func postgresConfig() *config.Config {
	cfg := &config.Config{}
	pg := &cfg.Database.Postgres
	pg.Host, pg.Port, pg.User, pg.Password, pg.DBName, pg.SSLMode = "db.internal", "5433", "app", "pw", "tracker", "disable"
	return cfg
}

func TestPoolConfig(t *testing.T) {
	cfg := postgresConfig()
	cfg.Database.Postgres.MaxOpenConns = 8
	cfg.Database.Postgres.MaxIdleConns = 2
	cfg.Database.Postgres.ConnMaxLifetime = "15m"

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.EqualValues(t, 5433, pc.ConnConfig.Port)
	assert.Equal(t, "tracker", pc.ConnConfig.Database)
	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, 15*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "projecttracker", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_IdleAboveMaxIgnored(t *testing.T) {
	cfg := postgresConfig()
	cfg.Database.Postgres.MaxOpenConns = 4
	cfg.Database.Postgres.MaxIdleConns = 10
	cfg.Database.Postgres.ConnMaxLifetime = "bogus"

	pc, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 4, pc.MaxConns)
	assert.Zero(t, pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
}
