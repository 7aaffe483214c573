package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test"

func TestLoadDeadlineService_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/deadlines")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TASK_SERVICE_URL", "http://tasks:5000/")
	t.Setenv("SECRET_PEERS", "http://users:4000/, ,http://tasks:5000")

	cfg, err := LoadDeadlineService()
	require.NoError(t, err)

	assert.Equal(t, "6001", cfg.AppPort)
	assert.Equal(t, "http://tasks:5000", cfg.TaskServiceURL)
	assert.Equal(t, 3*time.Second, cfg.OwnershipTimeout)
	assert.Equal(t, []string{"http://users:4000", "http://tasks:5000"}, cfg.SecretPeers)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadUserService_TokenTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/users")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadUserService()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "4000", cfg.AppPort)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadTaskService()
	require.Error(t, err)
}

func TestLoad_ShortSecretFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("JWT_SECRET", "supersecret")

	_, err := LoadTaskService()
	require.ErrorContains(t, err, "JWT_SECRET must be at least")
}
