package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruchidavda1/todoapp/internal/flagx"
	"github.com/ruchidavda1/todoapp/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so both "30s" and integer nanoseconds are accepted.
type FileConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	Storage               string         `json:"storage" yaml:"storage"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	DBMaxOpenConns        int            `json:"db_max_open_conns" yaml:"db_max_open_conns"`
	DBMaxIdleConns        int            `json:"db_max_idle_conns" yaml:"db_max_idle_conns"`
	DBConnMaxLifetime     timex.Duration `json:"db_conn_max_lifetime" yaml:"db_conn_max_lifetime"`
	RequestTimeout        timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SecretKey             string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	LogLevel              string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON. Keys absent
// from the file leave the current values untouched.
//
// A missing flag means nothing is loaded; an unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.Storage, fc.Storage)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	setString(&config.LogLevel, fc.LogLevel)

	if fc.DBMaxOpenConns != 0 {
		config.DBMaxOpenConns = fc.DBMaxOpenConns
	}
	if fc.DBMaxIdleConns != 0 {
		config.DBMaxIdleConns = fc.DBMaxIdleConns
	}
	if fc.BcryptCost != 0 {
		config.BcryptCost = fc.BcryptCost
	}
	if fc.DBConnMaxLifetime.Duration != 0 {
		config.DBConnMaxLifetime = fc.DBConnMaxLifetime.Duration
	}
	if fc.RequestTimeout.Duration != 0 {
		config.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
