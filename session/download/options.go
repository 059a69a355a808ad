package download

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"time"
)

// Option configures a single call to [Store].
type Option func(*options) error

type options struct {
	checksum     *checksum
	progress     time.Duration
	destination  string
	pattern      string
	skipExisting bool
}

// WithChecksum verifies the stored bytes against expected, a hex-encoded
// digest computed with a hash from newHash (e.g. sha256.New). Each stored
// file is hashed with its own hash, so the option can be reused.
func WithChecksum(newHash func() hash.Hash, expected string) Option {
	return func(opts *options) error {
		if newHash == nil {
			return errors.New("hash constructor must not be nil")
		}
		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		want, err := hex.DecodeString(expected)
		if err != nil {
			return fmt.Errorf("expected checksum: %w", err)
		}

		opts.checksum = &checksum{newHash: newHash, want: want}
		return nil
	}
}

// WithProgress logs download progress at most once per second.
func WithProgress() Option {
	return WithProgressInterval(time.Second)
}

// WithProgressInterval logs download progress at most once per d.
func WithProgressInterval(d time.Duration) Option {
	return func(opts *options) error {
		if d <= 0 {
			return errors.New("progress interval must be positive")
		}

		opts.progress = d
		return nil
	}
}

// WithDestination renames the completed file onto path instead of leaving
// it under a generated name.
func WithDestination(path string) Option {
	return func(opts *options) error {
		if path == "" {
			return errors.New("destination must not be empty")
		}

		opts.destination = path
		return nil
	}
}

// WithPattern sets the [os.CreateTemp] pattern used to name stored files.
func WithPattern(pattern string) Option {
	return func(opts *options) error {
		if pattern == "" {
			return errors.New("pattern must not be empty")
		}

		opts.pattern = pattern
		return nil
	}
}

// WithSkipExisting returns the destination immediately when it already
// exists. It has no effect without [WithDestination].
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}
