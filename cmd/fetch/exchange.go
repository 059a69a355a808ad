package main

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/encoding"

	"github.com/adamwoolhether/fetch"
	"github.com/adamwoolhether/fetch/codec"
	"github.com/adamwoolhether/fetch/decode"
	"github.com/adamwoolhether/fetch/session/download"
	"github.com/adamwoolhether/fetch/wire"
)

func store(ctx context.Context, task *fetch.Task, opts []download.Option, out printer) error {
	return await(func(handler func(fetch.Result[string], *wire.Response)) {
		task.Download(ctx, handler, fetch.WithDownload(opts...))
	}, out.line)
}

func exchange(ctx context.Context, task *fetch.Task, upload string, cfg config, enc encoding.Encoding, out printer) error {
	switch cfg.Decode {
	case "text":
		return decoded(ctx, task, upload, expect(decode.Text(enc), cfg.Fail), out.text)
	case "json":
		return decoded(ctx, task, upload, expect(decode.JSONMap(decode.WithCodec(codec.GoJSON)), cfg.Fail), out.json)
	case "form":
		return decoded(ctx, task, upload, expect(decode.Form(enc), cfg.Fail), out.form)
	}

	if cfg.Fail {
		return decoded(ctx, task, upload, expect(decode.Bytes(), true), out.bytes)
	}

	return await(func(handler func(fetch.Result[[]byte], *wire.Response)) {
		if upload != "" {
			task.UploadFileRaw(ctx, upload, handler)
			return
		}
		task.FetchRaw(ctx, handler)
	}, out.bytes)
}

func decoded[T any](ctx context.Context, task *fetch.Task, upload string, d decode.Decoder[T], show func(T) error) error {
	return await(func(handler func(fetch.Result[T], *wire.Response)) {
		if upload != "" {
			fetch.UploadFile(ctx, task, upload, d, handler)
			return
		}
		fetch.Fetch(ctx, task, d, handler)
	}, show)
}

func expect[T any](d decode.Decoder[T], fail bool) decode.Decoder[T] {
	if !fail {
		return d
	}

	return decode.ExpectStatus(d)
}

// await submits one operation and blocks until its result is printed.
func await[T any](submit func(handler func(fetch.Result[T], *wire.Response)), show func(T) error) error {
	errs := make(chan error, 1)

	submit(func(res fetch.Result[T], _ *wire.Response) {
		v, err := res.Get()
		if err != nil {
			errs <- err
			return
		}
		errs <- show(v)
	})

	return <-errs
}

func parseJSONObject(raw string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("parsing --json: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("parsing --json: want an object, got %q", raw)
	}

	return m, nil
}

func checksumOption(spec string) (download.Option, error) {
	algo, sum, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, errChecksumFormat
	}

	var newHash func() hash.Hash
	switch strings.ToLower(algo) {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return nil, errChecksumFormat
	}

	if _, err := hex.DecodeString(sum); err != nil {
		return nil, fmt.Errorf("%w: %w", errChecksumFormat, err)
	}

	return download.WithChecksum(newHash, sum), nil
}

type printer struct {
	w io.Writer
}

func (p printer) bytes(b []byte) error {
	_, err := p.w.Write(b)
	return err
}

func (p printer) text(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}

func (p printer) line(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func (p printer) json(m map[string]any) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting json: %w", err)
	}

	return p.line(string(b))
}

func (p printer) form(m map[string]*string) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		line := name
		if v := m[name]; v != nil {
			line += "=" + *v
		}
		if err := p.line(line); err != nil {
			return err
		}
	}

	return nil
}
