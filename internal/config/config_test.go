package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mesos", cfg.Storage.VideoPrefix)
	assert.InDelta(t, 0.95, cfg.Pipeline.DetectionConfidence, 1e-9)
	assert.InDelta(t, 0.5, cfg.Pipeline.IoUThreshold, 1e-9)
	assert.InDelta(t, 30.0, cfg.Pipeline.MinTrackSeconds, 1e-9)
	assert.True(t, cfg.Pipeline.BandEnabled)
	assert.InDelta(t, 0.25, cfg.Pipeline.BandMin, 1e-9)
	assert.InDelta(t, 0.75, cfg.Pipeline.BandMax, 1e-9)
	assert.Equal(t, 2, cfg.Workers.Count)
	assert.Equal(t, 32, cfg.Workers.QueueSize)
	assert.Equal(t, time.Duration(0), cfg.Workers.StartedTimeout)
	assert.False(t, cfg.Kubernetes.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IOU_THRESHOLD", "0.6")
	t.Setenv("JOB_STARTED_TIMEOUT", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.6, cfg.Pipeline.IoUThreshold, 1e-9)
	assert.Equal(t, 5*time.Minute, cfg.Workers.StartedTimeout)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "svc", Password: "pw", Name: "plates", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://svc:pw@db:5433/plates?sslmode=disable", cfg.DSN())
}
