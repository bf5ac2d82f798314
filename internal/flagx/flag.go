// Package flagx lets independent parts of the configuration read their own
// command-line flags out of os.Args without tripping over each other.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowedFlags, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// token that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// StringFlag returns the value of the last occurrence of any of names
// (given without the leading dash) in args, or def when none is present.
func StringFlag(args []string, def string, names ...string) string {
	allowed := make([]string, 0, len(names)*2)
	for _, n := range names {
		allowed = append(allowed, "-"+n, "--"+n)
	}

	value := def
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, def, "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}

// ConfigFileFlag returns the config file path given with -c or -config.
func ConfigFileFlag() string {
	return StringFlag(os.Args[1:], "", "c", "config")
}

// EnvFileFlag returns the dotenv file path given with -env, defaulting to ".env".
func EnvFileFlag() string {
	return StringFlag(os.Args[1:], ".env", "env")
}
