package download

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// progressWriter logs transfer progress at most once per interval.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	interval    time.Duration
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if time.Since(pw.lastLog) >= pw.interval {
		pw.lastLog = time.Now()
		pw.log("downloading")
	}

	return n, err
}

func (pw *progressWriter) log(msg string) {
	elapsed := time.Since(pw.startTime)

	attrs := []any{
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"transferred", pw.transferred,
	}
	if pw.total > 0 {
		attrs = append(attrs,
			"total", pw.total,
			"progress", fmt.Sprintf("%.1f%%", float64(pw.transferred)/float64(pw.total)*100),
		)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		attrs = append(attrs, "mbps", fmt.Sprintf("%.2f", float64(pw.transferred)/secs/(1024*1024)))
	}

	pw.logger.Info(msg, attrs...)
}
