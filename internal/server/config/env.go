package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/ruchidavda1/todoapp/internal/flagx"
	"github.com/ruchidavda1/todoapp/internal/timex"
)

// Environment variables read by parseEnv.
const (
	EnvPort           = "PORT"
	EnvEndpointAddr   = "HTTP_ADDR"
	EnvStorage        = "STORAGE"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvJWTSecret      = "JWT_SECRET"
	EnvJWTExpiresIn   = "JWT_EXPIRES_IN"
	EnvLogLevel       = "LOG_LEVEL"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
)

// parseEnv loads the dotenv file named by -env (default ".env") into the
// process environment without overriding variables that are already set,
// then copies the recognised variables into config. A missing dotenv file is
// not an error; a malformed one, or an unparsable duration, panics.
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlag()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv(EnvPort); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	setString(&config.EndpointAddrHTTP, os.Getenv(EnvEndpointAddr))
	setString(&config.Storage, os.Getenv(EnvStorage))
	setString(&config.DatabaseDSN, os.Getenv(EnvDatabaseURL))
	setString(&config.SecretKey, os.Getenv(EnvJWTSecret))
	setString(&config.LogLevel, os.Getenv(EnvLogLevel))

	setDuration(&config.TokenValidityDuration, os.Getenv(EnvJWTExpiresIn))
	setDuration(&config.RequestTimeout, os.Getenv(EnvRequestTimeout))
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
