package download

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const defaultPattern = "fetch-dl-*"

// Store streams body into a new file in dir and returns the file's path.
// An empty dir means [os.TempDir]. contentLength is checked when it is
// not negative. On any error the partial file is removed.
func Store(body io.Reader, contentLength int64, dir string, logger *slog.Logger, optFns ...Option) (string, error) {
	opts := options{pattern: defaultPattern}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return "", fmt.Errorf("applying option: %w", err)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	if opts.destination != "" {
		if opts.skipExisting {
			if _, err := os.Stat(opts.destination); err == nil {
				logger.Info("skipping existing file", "path", opts.destination)
				return opts.destination, nil
			}
		}
		dir = filepath.Dir(opts.destination)
	}

	file, err := os.CreateTemp(dir, opts.pattern)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove partial file", "error", err)
			}
		}
	}()

	var writer io.Writer = file
	sum := opts.checksum.start()
	if sum != nil {
		writer = io.MultiWriter(writer, sum)
	}

	var progress *progressWriter
	if opts.progress > 0 {
		progress = &progressWriter{
			w:         writer,
			logger:    logger,
			interval:  opts.progress,
			total:     contentLength,
			startTime: time.Now(),
		}
		writer = progress
	}

	n, err := io.Copy(writer, body)
	if err != nil {
		return "", fmt.Errorf("copying body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return "", &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := sum.verify(); err != nil {
		return "", err
	}

	if err := file.Sync(); err != nil {
		return "", fmt.Errorf("syncing file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	path := file.Name()
	if opts.destination != "" {
		if err := os.Rename(path, opts.destination); err != nil {
			return "", fmt.Errorf("renaming file: %w", err)
		}
		path = opts.destination
	}

	if progress != nil {
		progress.log("download complete")
	}

	successful = true

	return path, nil
}
