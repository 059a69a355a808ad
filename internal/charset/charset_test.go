package charset

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestLookup(t *testing.T) {
	testCases := map[string]struct {
		name   string
		expErr error
	}{
		"empty defaults to utf8": {name: ""},
		"utf8":                   {name: "UTF-8"},
		"latin1 iana":            {name: "ISO-8859-1"},
		"whatwg label":           {name: "latin1"},
		"shift jis":              {name: "Shift_JIS"},
		"unknown":                {name: "klingon-8", expErr: ErrUnknown},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			enc, err := Lookup(tc.name)
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got %v", tc.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if enc == nil {
				t.Fatal("exp non-nil encoding")
			}
		})
	}
}

func TestEncodeDecode_Latin1(t *testing.T) {
	b, err := Encode(charmap.ISO8859_1, "café")
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	if len(b) != 4 || b[3] != 0xE9 {
		t.Errorf("unexpected latin1 bytes % x", b)
	}

	s, err := Decode(charmap.ISO8859_1, b)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if s != "café" {
		t.Errorf("exp café, got %q", s)
	}
}

func TestEncode_Unrepresentable(t *testing.T) {
	if _, err := Encode(charmap.ISO8859_1, "price: €5"); err == nil {
		t.Error("expected error encoding € as latin1")
	}
}

func TestEncode_InvalidUTF8Input(t *testing.T) {
	if _, err := Encode(nil, string([]byte{0xff, 0xfe})); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("exp ErrInvalidInput, got %v", err)
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	invalid := []byte{'o', 'k', 0xc3}

	if _, err := Decode(nil, invalid); !errors.Is(err, ErrUndecodable) {
		t.Errorf("nil charset: exp ErrUndecodable, got %v", err)
	}
	if _, err := Decode(unicode.UTF8, invalid); !errors.Is(err, ErrUndecodable) {
		t.Errorf("utf8 charset: exp ErrUndecodable, got %v", err)
	}
}

func TestDecode_ReplacementCharacter(t *testing.T) {
	utf16be := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

	tests := map[string]struct {
		data   []byte
		exp    string
		expErr error
	}{
		"encoded replacement char": {data: []byte{0x00, 'o', 0x00, 'k', 0x00, ' ', 0xff, 0xfd}, exp: "ok \uFFFD"},
		"lone surrogate":           {data: []byte{0xd8, 0x00, 0x00, 'A'}, expErr: ErrUndecodable},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(utf16be, tc.data)
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got %v", tc.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestEncodeDecode_ReplacementCharacterRoundTrip(t *testing.T) {
	utf16be := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

	b, err := Encode(utf16be, "ok \uFFFD")
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	s, err := Decode(utf16be, b)
	if err != nil {
		t.Fatalf("decoding % x: %v", b, err)
	}
	if s != "ok \uFFFD" {
		t.Errorf("exp round trip, got %q", s)
	}
}
