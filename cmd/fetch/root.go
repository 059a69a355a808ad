package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"github.com/adamwoolhether/fetch"
	"github.com/adamwoolhether/fetch/dispatch"
	"github.com/adamwoolhether/fetch/encode"
	"github.com/adamwoolhether/fetch/internal/charset"
	"github.com/adamwoolhether/fetch/session/download"
	"github.com/adamwoolhether/fetch/wire"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fetch [flags] URL",
		Short:         "Send an HTTP request and print the result",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return run(cmd, cfg, args[0], stdout, stderr)
		},
	}

	flags := cmd.Flags()

	flags.StringP("method", "X", http.MethodGet, "HTTP method")
	flags.StringArrayP("query", "q", nil, "query parameter name[=value], repeatable")
	flags.StringArrayP("header", "H", nil, `request header "Name: value", repeatable`)
	flags.String("data", "", "text request body, encoded with --charset")
	flags.String("json", "", "JSON object request body")
	flags.StringArray("form", nil, "form field name[=value], repeatable")
	flags.Bool("download", false, "store the response body in a file and print its location")
	flags.String("checksum", "", "verify a download against algo:hex (sha256 or sha512)")
	flags.String("upload", "", "send the contents of FILE as the request body")
	flags.String("config", "", "config file (json, yaml or toml)")

	flags.String("charset", "utf-8", "character set for text and form bodies")
	flags.String("decode", "raw", "response decoding: raw, text, json or form")
	flags.Bool("fail", false, "fail on a non-2xx response status")
	flags.Bool("progress", false, "log download progress")
	flags.BoolP("verbose", "v", false, "log request lifecycle to stderr")
	flags.Duration("timeout", 0, "overall request timeout")
	flags.String("user-agent", "fetch-cli", "User-Agent header")
	flags.Int("rps", 0, "requests per second limit, 0 disables throttling")
	flags.Int("burst", 0, "burst capacity when --rps is set")
	flags.Bool("no-follow", false, "do not follow redirects")
	flags.String("download-dir", "", "directory downloads are stored in")
	flags.Int("workers", 0, "bound on concurrently built tasks")

	cmd.MarkFlagsMutuallyExclusive("data", "json", "form")
	cmd.MarkFlagsMutuallyExclusive("download", "upload")

	return cmd
}

func run(cmd *cobra.Command, cfg config, target string, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	results := dispatch.NewQueue()
	defer results.Close()

	client, err := fetch.NewFromConfig(cfg.Config,
		fetch.WithLogger(logger),
		fetch.WithDelivery(results),
	)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	enc, err := charset.Lookup(cfg.Charset)
	if err != nil {
		return err
	}

	task, err := buildTask(cmd, client, target, enc)
	if err != nil {
		return err
	}

	out := printer{w: stdout}
	ctx := cmd.Context()

	if dl, _ := cmd.Flags().GetBool("download"); dl {
		opts, err := downloadOptions(cmd, cfg)
		if err != nil {
			return err
		}
		return store(ctx, task, opts, out)
	}

	upload, _ := cmd.Flags().GetString("upload")

	return exchange(ctx, task, upload, cfg, enc, out)
}

func buildTask(cmd *cobra.Command, client *fetch.Client, target string, enc encoding.Encoding) (*fetch.Task, error) {
	flags := cmd.Flags()

	method, _ := flags.GetString("method")
	query, _ := flags.GetStringArray("query")
	headers, _ := flags.GetStringArray("header")

	h := http.Header{}
	for _, raw := range headers {
		name, value, ok := strings.Cut(raw, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want \"Name: value\"", raw)
		}
		h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	opts := []fetch.RequestOption{
		fetch.WithMethod(strings.ToUpper(method)),
		fetch.WithHeaders(h),
	}
	if len(query) > 0 {
		opts = append(opts, fetch.WithQuery(parseParams(query)))
	}

	body, err := bodyEncoder(cmd, enc)
	if err != nil {
		return nil, err
	}
	if body != nil {
		opts = append(opts, fetch.WithBody(body))
	}

	return client.Request(target, opts...), nil
}

func bodyEncoder(cmd *cobra.Command, enc encoding.Encoding) (encode.Encoder, error) {
	flags := cmd.Flags()

	switch {
	case flags.Changed("data"):
		data, _ := flags.GetString("data")
		return encode.Text(data, enc), nil

	case flags.Changed("json"):
		raw, _ := flags.GetString("json")
		m, err := parseJSONObject(raw)
		if err != nil {
			return nil, err
		}
		return encode.JSONMap(m), nil

	case flags.Changed("form"):
		fields, _ := flags.GetStringArray("form")
		return encode.Form(parseParams(fields), encode.WithCharset(enc)), nil
	}

	return nil, nil
}

// parseParams turns name[=value] items into Params. A bare name has no value.
func parseParams(items []string) wire.Params {
	params := make(wire.Params, 0, len(items))
	for _, item := range items {
		name, value, ok := strings.Cut(item, "=")
		p := wire.Param{Name: name}
		if ok {
			p.Value = wire.Value(value)
		}
		params = append(params, p)
	}

	return params
}

func downloadOptions(cmd *cobra.Command, cfg config) ([]download.Option, error) {
	var opts []download.Option

	if cfg.Progress {
		opts = append(opts, download.WithProgress())
	}

	sum, _ := cmd.Flags().GetString("checksum")
	if sum == "" {
		return opts, nil
	}

	opt, err := checksumOption(sum)
	if err != nil {
		return nil, err
	}

	return append(opts, opt), nil
}

var errChecksumFormat = errors.New("checksum must be algo:hex with algo sha256 or sha512")
