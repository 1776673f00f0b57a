// Package config loads txorm's ambient configuration (the SQLite DSN
// knobs and the logger section): a package-level App populated by Init
// via viper, which infers ini/yaml/json/toml from the file extension.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/go-viper/encoding/ini"
	"github.com/spf13/viper"
)

// App is the process-wide configuration, populated by Init. Components
// that are constructed directly (e.g. in tests, via sqlite.Dial) do not
// need App at all; it exists for callers that want file-based
// configuration. The cmd/txorm CLI does not read it.
var App = &Config{
	Sqlite: Sqlite{BusyTimeoutMS: 5000},
	Logger: Logger{Level: "info", Format: "console"},
}

// Config is the root configuration structure.
type Config struct {
	Sqlite Sqlite `mapstructure:"sqlite" json:"sqlite" ini:"sqlite" yaml:"sqlite"`
	Logger Logger `mapstructure:"logger" json:"logger" ini:"logger" yaml:"logger"`
}

// Sqlite configures the one first-party storage backend.
type Sqlite struct {
	Path          string `mapstructure:"path" json:"path" ini:"path" yaml:"path"`
	IsMemory      bool   `mapstructure:"is_memory" json:"is_memory" ini:"is_memory" yaml:"is_memory"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms" json:"busy_timeout_ms" ini:"busy_timeout_ms" yaml:"busy_timeout_ms"`
}

// Logger configures the structured logger.
type Logger struct {
	Level      string `mapstructure:"level" json:"level" ini:"level" yaml:"level"`
	Format     string `mapstructure:"format" json:"format" ini:"format" yaml:"format"` // "console" or "json"
	File       string `mapstructure:"file" json:"file" ini:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb" ini:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days" ini:"max_age_days" yaml:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups" ini:"max_backups" yaml:"max_backups"`
}

// Init loads configuration from path (ini, yaml, json, or toml — viper
// infers the format from the extension) into App.
//
// viper v1.19+ dropped ini decoding from core:
// https://github.com/spf13/viper/blob/master/UPGRADE.md#breaking-hcl-java-properties-ini-removed-from-core
// so ini support has to be registered explicitly through a codec registry
// before the file is read.
func Init(path string) error {
	codecRegistry := viper.NewCodecRegistry()
	if err := codecRegistry.RegisterCodec("ini", ini.Codec{}); err != nil {
		return errors.Wrap(err, "config: register ini codec")
	}
	v := viper.NewWithOptions(viper.WithCodecRegistry(codecRegistry))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "config: read")
	}
	if err := v.Unmarshal(App); err != nil {
		return errors.Wrap(err, "config: unmarshal")
	}
	return nil
}
