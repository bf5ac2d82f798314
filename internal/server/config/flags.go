package config

import (
	"flag"
	"os"
	"time"

	"github.com/ruchidavda1/todoapp/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-m string   storage backend: postgres or memory
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-l string   log level
//
// os.Args is first narrowed with flagx.FilterArgs so flags owned by other
// layers (-c, -env) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-t", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.Storage, "m", config.Storage, "storage backend (postgres|memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -t overrides the lifetime set by earlier layers.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
