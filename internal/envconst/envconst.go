// Package envconst reads tunables from the environment, falling back to a
// default when unset or unparseable. It exists so a single operator can
// override a compiled-in constant without touching the config file, mostly
// useful for support requests and local debugging.
package envconst

import (
	"os"
	"strconv"
	"time"
)

func String(varname, def string) string {
	if v, ok := os.LookupEnv(varname); ok {
		return v
	}
	return def
}

func Int(varname string, def int) int {
	v, ok := os.LookupEnv(varname)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Duration(varname string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(varname)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func Bool(varname string, def bool) bool {
	v, ok := os.LookupEnv(varname)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
