package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090
internal_token = "tok"

[database]
host = "db.local"
user = "queue"
password = "pass"
dbname = "brb_queue"

[messenger]
url = "http://gateway:8081"

[scheduler]
enabled = true

[queue]
horizon_hours = 6
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "tok", cfg.Server.InternalToken)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 6, cfg.Queue.HorizonHours)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "postgres"
dbname = "brb_queue"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "* * * * *", cfg.Scheduler.Spec)

	// Параметры движка очереди по умолчанию
	assert.Equal(t, 4, cfg.Queue.HorizonHours)
	assert.Equal(t, 10, cfg.Queue.GridMinutes)
	assert.Equal(t, 10, cfg.Queue.SafetyMarginMinutes)
	assert.Equal(t, 5, cfg.Queue.ConfirmationWindowMinutes)
	assert.Equal(t, 10, cfg.Queue.NotifyMinLeadMinutes)
	assert.Equal(t, 120, cfg.Queue.NotifyMaxLeadMinutes)
}

func TestLoad_MissingRequired(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidWindow(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "postgres"
dbname = "brb_queue"

[queue]
notify_min_lead_minutes = 130
notify_max_lead_minutes = 120
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.local", Port: 5432, User: "queue",
		Password: "pass", DBName: "brb_queue", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=db.local port=5432 user=queue password=pass dbname=brb_queue sslmode=disable",
		d.DSN())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("does-not-exist.toml")
	assert.Error(t, err)
}
