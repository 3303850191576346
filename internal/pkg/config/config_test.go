package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HubCfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.HubCfg.RequestTimeout)
	assert.Equal(t, "0.0.0.0:8000", cfg.ServerCfg.Address)
	assert.False(t, cfg.MqttEnabled())
	assert.False(t, cfg.JournalEnabled())
}

func TestFromEnvReadsEnvironment(t *testing.T) {
	t.Setenv("HUB_URL", "http://10.0.0.5:25105")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("MQTT_HOST", "tcp://broker:1883")
	t.Setenv("DATABASE_URL", "postgres://panel@localhost/panel")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:25105", cfg.HubCfg.URL)
	assert.Equal(t, 5*time.Second, cfg.HubCfg.PollInterval)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.True(t, cfg.MqttEnabled())
	assert.True(t, cfg.JournalEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{HubCfg: &HubConfig{}}
	assert.Error(t, cfg.Validate())

	cfg.HubCfg.URL = "http://10.0.0.5:25105"
	assert.Error(t, cfg.Validate(), "zero poll interval")

	cfg.HubCfg.PollInterval = time.Second
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&Config{}).Validate(), "nil hub config")
}
