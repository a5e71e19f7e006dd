package server

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
)

func TestLoadCfgOverridesAndDefaults(t *testing.T) {
	file, err := ini.Load([]byte(`
[server]
addr = 127.0.0.1:8080
push_every = 3

[driver]
max_step = 0.01

[log]
level = debug
`))
	require.NoError(t, err)

	cfg := loadCfg(file)
	def := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, def.Path, cfg.Path)
	assert.Equal(t, 3, cfg.PushEvery)
	assert.Equal(t, 0.01, cfg.Driver.MaxStep)
	assert.Equal(t, def.Driver.FrameRate, cfg.Driver.FrameRate)
	assert.Equal(t, def.HistoryCapacity, cfg.HistoryCapacity)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigShippedFile(t *testing.T) {
	_, err := os.Stat("../conf/config.ini")
	require.NoError(t, err)
	cfg, err := LoadConfig("../conf/config.ini")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyLogLevel(t *testing.T) {
	prev := log.GetLevel()
	defer log.SetLevel(prev)

	require.NoError(t, Config{LogLevel: "warn"}.ApplyLogLevel())
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.Error(t, Config{LogLevel: "loud"}.ApplyLogLevel())
}
