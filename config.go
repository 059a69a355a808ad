package fetch

import (
	"fmt"
	"time"

	"github.com/adamwoolhether/fetch/internal/validate"
	"github.com/adamwoolhether/fetch/session"
)

// Config is the declarative form of the client options, suitable for
// loading from flags, the environment or a file.
type Config struct {
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	UserAgent         string        `mapstructure:"user_agent"`
	RPS               int           `mapstructure:"rps" validate:"gte=0"`
	Burst             int           `mapstructure:"burst" validate:"gte=0,required_with=RPS"`
	NoFollowRedirects bool          `mapstructure:"no_follow_redirects"`
	DownloadDir       string        `mapstructure:"download_dir" validate:"omitempty,dir"`
	Workers           int           `mapstructure:"workers" validate:"gte=0"`
}

// Options converts cfg into client options after validating it.
func (cfg Config) Options() ([]Option, error) {
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	var sessionOpts []session.Option
	if cfg.Timeout > 0 {
		sessionOpts = append(sessionOpts, session.WithTimeout(cfg.Timeout))
	}
	if cfg.UserAgent != "" {
		sessionOpts = append(sessionOpts, session.WithUserAgent(cfg.UserAgent))
	}
	if cfg.RPS > 0 {
		sessionOpts = append(sessionOpts, session.WithThrottle(cfg.RPS, cfg.Burst))
	}
	if cfg.NoFollowRedirects {
		sessionOpts = append(sessionOpts, session.WithNoFollowRedirects())
	}
	if cfg.DownloadDir != "" {
		sessionOpts = append(sessionOpts, session.WithDownloadDir(cfg.DownloadDir))
	}

	var opts []Option
	if len(sessionOpts) > 0 {
		opts = append(opts, WithSessionOptions(sessionOpts...))
	}
	if cfg.Workers > 0 {
		opts = append(opts, WithWorkers(cfg.Workers))
	}

	return opts, nil
}

// NewFromConfig builds a Client from cfg. opts are applied after the
// options derived from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cfgOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	return New(append(cfgOpts, opts...)...)
}
