package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db.local"
port = 5433
user = "booking"
password = "from-file"
dbname = "slots"

[logs]
level = "debug"

[booking]
pending_ttl_minutes = 20

[catalog]
url = "http://catalog:8080"
timeout = 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 20, cfg.Booking.PendingTTLMinutes)
	assert.Equal(t, 30, cfg.Booking.DefaultSlotDurationMinutes)
	assert.Equal(t, 15, cfg.Booking.DefaultBufferMinutes)
	assert.Equal(t, 31, cfg.Booking.MaxWindowDays)
	assert.Equal(t, "@every 1m", cfg.Expiry.SweepInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("BOOKING_DATABASE_PASSWORD", "from-env")
	t.Setenv("BOOKING_BOOKING_PENDING_TTL_MINUTES", "5")
	t.Setenv("BOOKING_PAYMENTS_SECRET_KEY", "sk_test_123")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Booking.PendingTTLMinutes)
	assert.Equal(t, "sk_test_123", cfg.Payments.SecretKey)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing catalog url",
			body: `
[database]
host = "db"
dbname = "slots"
`,
		},
		{
			name: "unknown timezone",
			body: `
[database]
host = "db"
dbname = "slots"
[catalog]
url = "http://catalog"
[booking]
default_timezone = "Mars/Olympus"
`,
		},
		{
			name: "zero pending ttl",
			body: `
[database]
host = "db"
dbname = "slots"
[catalog]
url = "http://catalog"
[booking]
pending_ttl_minutes = 0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", d.DSN())
}
