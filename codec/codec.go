// Package codec defines the serializers used by the JSON and form
// encoders and decoders.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// Codec serializes values to bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// JSON is the encoding/json codec.
	JSON Codec = stdJSON{}

	// JSONNumber is the encoding/json codec with [json.Decoder.UseNumber]
	// enabled, preserving number precision as [json.Number] instead of
	// float64.
	JSONNumber Codec = stdJSON{useNumber: true}

	// GoJSON is a drop-in encoding/json compatible codec backed by
	// github.com/goccy/go-json.
	GoJSON Codec = goJSON{}
)

type stdJSON struct {
	useNumber bool
}

func (c stdJSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c stdJSON) Unmarshal(data []byte, v any) error {
	if !c.useNumber {
		return json.Unmarshal(data, v)
	}

	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(v); err != nil {
		return err
	}
	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid data after top-level value at offset %d", d.InputOffset())
	}

	return nil
}

type goJSON struct{}

func (goJSON) Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func (goJSON) Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}
