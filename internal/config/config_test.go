package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("WORKFLOW_BOOTSTRAP_STATUSES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, []string{"Open", "In Progress", "Closed"}, cfg.Workflow.BootstrapStatuses)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MINIO")
	t.Setenv("WORKFLOW_BOOTSTRAP_STATUSES", " Open , Closed ,,")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, []string{"Open", "Closed"}, cfg.Workflow.BootstrapStatuses)
	assert.Zero(t, cfg.App.RequestTimeout())
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.Error(t, err)
}
