package server

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"thermal/driver"
)

type Config struct {
	Addr      string
	Path      string
	PushEvery int // send a frame every n driver ticks

	Driver driver.Config

	HistoryCapacity int

	LogLevel string
}

func DefaultConfig() Config {
	return Config{
		Addr:            ":9000",
		Path:            "/ws",
		PushEvery:       2,
		Driver:          driver.DefaultConfig(),
		HistoryCapacity: 600,
		LogLevel:        "info",
	}
}

// LoadConfig reads an ini file. Keys that are missing keep their defaults;
// when the file cannot be read the defaults are returned with the error.
func LoadConfig(path string) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("load config %s: %w", path, err)
	}
	return loadCfg(file), nil
}

func loadCfg(file *ini.File) Config {
	def := DefaultConfig()
	srv := file.Section("server")
	drv := file.Section("driver")
	return Config{
		Addr:      srv.Key("addr").MustString(def.Addr),
		Path:      srv.Key("path").MustString(def.Path),
		PushEvery: srv.Key("push_every").MustInt(def.PushEvery),
		Driver: driver.Config{
			FrameRate:  drv.Key("frame_rate").MustInt(def.Driver.FrameRate),
			MaxStep:    drv.Key("max_step").MustFloat64(def.Driver.MaxStep),
			MaxElapsed: drv.Key("max_elapsed").MustFloat64(def.Driver.MaxElapsed),
		},
		HistoryCapacity: file.Section("history").Key("capacity").MustInt(def.HistoryCapacity),
		LogLevel:        file.Section("log").Key("level").MustString(def.LogLevel),
	}
}

// ApplyLogLevel sets the global logrus level.
func (c Config) ApplyLogLevel() error {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}
