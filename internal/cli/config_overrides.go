package cli

import (
	"strconv"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configFlags maps command-line flags to the config keys they override.
var configFlags = map[string]string{
	"db-url":     "db_url",
	"log-level":  "log.level",
	"log-format": "log.format",
	"listen":     "http_addr",
}

// applyConfigFlagOverrides copies the flags the user actually set into v,
// so they win over the file and the environment.
func applyConfigFlagOverrides(fs *pflag.FlagSet, v *viper.Viper, keys map[string]string) {
	fs.Visit(func(f *pflag.Flag) {
		if key, ok := keys[f.Name]; ok {
			v.Set(key, flagValue(f))
		}
	})
}

func flagValue(f *pflag.Flag) any {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice()
	}
	raw := f.Value.String()
	switch f.Value.Type() {
	case "bool":
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case "int":
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return raw
}
