package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/fetch"
	"github.com/adamwoolhether/fetch/internal/validate"
)

const envPrefix = "FETCH"

// config is the client configuration, read from flags, FETCH_* environment
// variables and an optional config file, in that order of precedence.
type config struct {
	fetch.Config `mapstructure:",squash"`

	Charset  string `mapstructure:"charset" validate:"charset"`
	Decode   string `mapstructure:"decode" validate:"oneof=raw text json form"`
	Fail     bool   `mapstructure:"fail"`
	Progress bool   `mapstructure:"progress"`
	Verbose  bool   `mapstructure:"verbose"`
}

// configFlags maps config keys to the flags that set them.
var configFlags = map[string]string{
	"timeout":             "timeout",
	"user_agent":          "user-agent",
	"rps":                 "rps",
	"burst":               "burst",
	"no_follow_redirects": "no-follow",
	"download_dir":        "download-dir",
	"workers":             "workers",
	"charset":             "charset",
	"decode":              "decode",
	"fail":                "fail",
	"progress":            "progress",
	"verbose":             "verbose",
}

func loadConfig(cmd *cobra.Command) (config, error) {
	v := viper.New()

	for key, name := range configFlags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return config{}, fmt.Errorf("binding flag %s: %w", name, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate.Check(cfg); err != nil {
		var fe validate.FieldErrors
		if errors.As(err, &fe) {
			return config{}, fmt.Errorf("invalid config: %w", fe)
		}
		return config{}, err
	}

	return cfg, nil
}
