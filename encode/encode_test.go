package encode_test

import (
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/adamwoolhether/fetch/encode"
	"github.com/adamwoolhether/fetch/wire"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func newRequest() wire.Request {
	return wire.NewRequest(http.MethodPost, "https://example.com/resource")
}

func TestBytes(t *testing.T) {
	in := newRequest()

	out, err := encode.Bytes([]byte{0x00, 0x01}).Encode(in)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	if diff := cmp.Diff([]byte{0x00, 0x01}, out.Body); diff != "" {
		t.Errorf("unexpected body (-exp +got):\n%s", diff)
	}
	if len(out.Header) != 0 {
		t.Errorf("exp no headers, got %v", out.Header)
	}
	if in.Body != nil {
		t.Error("input request mutated")
	}
}

func TestText(t *testing.T) {
	testCases := map[string]struct {
		text    string
		enc     *charmap.Charmap
		expBody []byte
		expErr  bool
	}{
		"utf8Default": {
			text:    "héllo",
			expBody: []byte("héllo"),
		},
		"latin1": {
			text:    "héllo",
			enc:     charmap.ISO8859_1,
			expBody: []byte{'h', 0xE9, 'l', 'l', 'o'},
		},
		"unrepresentable": {
			text:   "€",
			enc:    charmap.ISO8859_1,
			expErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			e := encode.Text(tc.text, nil)
			if tc.enc != nil {
				e = encode.Text(tc.text, tc.enc)
			}

			out, err := e.Encode(newRequest())
			if tc.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("encoding: %v", err)
			}

			if diff := cmp.Diff(tc.expBody, out.Body); diff != "" {
				t.Errorf("unexpected body (-exp +got):\n%s", diff)
			}
			if ct := out.Header.Get(wire.HeaderContentType); ct != "" {
				t.Errorf("text encoder must not set Content-Type, got %q", ct)
			}
		})
	}
}

func TestJSON_ContentType(t *testing.T) {
	type payload struct {
		Body string `json:"body"`
	}

	testCases := map[string]struct {
		existing string
		exp      string
	}{
		"absentIsSet":         {exp: "application/json"},
		"existingIsPreserved": {existing: "application/vnd.api+json", exp: "application/vnd.api+json"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			in := newRequest()
			if tc.existing != "" {
				in.Header.Set("content-type", tc.existing)
			}

			out, err := encode.JSON(payload{Body: "hey there"}).Encode(in)
			if err != nil {
				t.Fatalf("encoding: %v", err)
			}

			if got := out.Header.Values(wire.HeaderContentType); len(got) != 1 || got[0] != tc.exp {
				t.Errorf("exp Content-Type [%s], got %v", tc.exp, got)
			}
			if string(out.Body) != `{"body":"hey there"}` {
				t.Errorf("unexpected body %s", out.Body)
			}
		})
	}
}

func TestJSON_MarshalError(t *testing.T) {
	_, err := encode.JSON(math.Inf(1)).Encode(newRequest())
	if err == nil {
		t.Fatal("expected error marshalling +Inf")
	}
}

func TestJSONMap(t *testing.T) {
	out, err := encode.JSONMap(map[string]any{"a": 1, "b": nil}).Encode(newRequest())
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	if string(out.Body) != `{"a":1,"b":null}` {
		t.Errorf("unexpected body %s", out.Body)
	}
	if ct := out.Header.Get(wire.HeaderContentType); ct != wire.MediaTypeJSON {
		t.Errorf("unexpected Content-Type %q", ct)
	}
}

func TestForm(t *testing.T) {
	params := wire.Params{
		{Name: "a", Value: wire.Value("1")},
		{Name: "b"},
		{Name: "c", Value: wire.Value("x+y z")},
	}

	out, err := encode.Form(params).Encode(newRequest())
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	if got := string(out.Body); got != "a=1&b&c=x%2By%20z" {
		t.Errorf("unexpected body %q", got)
	}
	if ct := out.Header.Get(wire.HeaderContentType); ct != wire.MediaTypeForm {
		t.Errorf("unexpected Content-Type %q", ct)
	}
}

func TestForm_KeepsContentType(t *testing.T) {
	in := newRequest()
	in.Header.Set(wire.HeaderContentType, "text/plain")

	out, err := encode.Form(wire.Params{{Name: "a", Value: wire.Value("1")}}).Encode(in)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if ct := out.Header.Get(wire.HeaderContentType); ct != "text/plain" {
		t.Errorf("Content-Type overridden: %q", ct)
	}
}

// rejectAll is a charset that cannot represent anything.
type rejectAll struct{}

func (rejectAll) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: rejectTransformer{}}
}

func (rejectAll) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: rejectTransformer{}}
}

type rejectTransformer struct{ transform.NopResetter }

func (rejectTransformer) Transform(_, src []byte, _ bool) (int, int, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}
	return 0, 0, errors.New("rejected")
}

func TestForm_UnrepresentableCharsetIsNoop(t *testing.T) {
	in := newRequest()

	out, err := encode.Form(wire.Params{{Name: "a", Value: wire.Value("1")}}, encode.WithCharset(rejectAll{})).Encode(in)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if out.Body != nil || out.Header.Get(wire.HeaderContentType) != "" {
		t.Errorf("expected unchanged request, got body %q headers %v", out.Body, out.Header)
	}
}

func TestFormOf(t *testing.T) {
	type login struct {
		User  string  `json:"user"`
		Token *string `json:"token"`
	}
	type counter struct {
		Count int `json:"count"`
	}

	testCases := map[string]struct {
		value   any
		expBody string
		expNoop bool
		expErr  bool
	}{
		"stringsAndNull": {
			value:   login{User: "ada"},
			expBody: "token&user=ada",
		},
		"nonStringValueIsNoop": {
			value:   counter{Count: 3},
			expNoop: true,
		},
		"nonObjectIsNoop": {
			value:   []string{"a"},
			expNoop: true,
		},
		"marshalError": {
			value:  make(chan int),
			expErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			in := newRequest()

			out, err := encode.FormOf(tc.value).Encode(in)
			if tc.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("encoding: %v", err)
			}

			if tc.expNoop {
				if out.Body != nil || out.Header.Get(wire.HeaderContentType) != "" {
					t.Errorf("expected unchanged request, got body %q headers %v", out.Body, out.Header)
				}
				return
			}

			if string(out.Body) != tc.expBody {
				t.Errorf("exp body %q, got %q", tc.expBody, out.Body)
			}
		})
	}
}

func TestValues(t *testing.T) {
	type search struct {
		Query string   `url:"q"`
		Tags  []string `url:"tag"`
		Page  int      `url:"page,omitempty"`
	}

	out, err := encode.Values(search{Query: "go lang", Tags: []string{"b", "a"}}).Encode(newRequest())
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	if got := string(out.Body); got != "q=go%20lang&tag=b&tag=a" {
		t.Errorf("unexpected body %q", got)
	}
	if ct := out.Header.Get(wire.HeaderContentType); ct != wire.MediaTypeForm {
		t.Errorf("unexpected Content-Type %q", ct)
	}
}

func TestValues_InvalidInput(t *testing.T) {
	_, err := encode.Values(42).Encode(newRequest())
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
