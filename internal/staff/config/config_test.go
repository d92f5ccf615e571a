package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gartstein/staff/internal/staff/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, db.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, int32(91), cfg.DefaultISDCode)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "DB_DRIVER: sqlite\nDB_NAME: staff.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, uint64(5), cfg.DBConnectRetries)
	assert.Equal(t, "staff.events", cfg.Topic)
	assert.Equal(t, "staff-eventlog", cfg.ConsumerGroup)
	assert.Equal(t, int32(91), cfg.DefaultISDCode)
	assert.False(t, cfg.EventsEnabled())
	assert.Zero(t, cfg.DBPort, "sqlite has no port")

	dbCfg := cfg.Database()
	assert.Equal(t, db.DriverSQLite, dbCfg.Driver)
	assert.Equal(t, "staff.db", dbCfg.DBName)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "DB_DRIVER: sqlite\nDB_NAME: env.db\nHTTP_PORT: 9090\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "env.db", cfg.DBName)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed yaml", body: "GRPC_PORT: [", want: "parse config"},
		{name: "unknown driver", body: "DB_DRIVER: oracle\nDB_NAME: x\n", want: "DB_DRIVER \"oracle\" is not supported"},
		{name: "postgres without host", body: "DB_USER: u\nDB_NAME: x\n", want: "DB_HOST is required"},
		{name: "missing db name", body: "DB_DRIVER: sqlite\n", want: "DB_NAME is required"},
		{name: "same ports", body: "DB_DRIVER: sqlite\nDB_NAME: x\nGRPC_PORT: 80\nHTTP_PORT: 80\n", want: "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
