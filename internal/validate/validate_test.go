package validate_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/fetch/internal/validate"
)

type settings struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Workers int    `mapstructure:"workers" validate:"gte=0"`
	Charset string `json:"charset" validate:"charset"`
	Skipped string `mapstructure:"-" validate:"required"`
	Plain   int    `validate:"lte=10"`
}

func TestCheck(t *testing.T) {
	tests := map[string]struct {
		in        settings
		expFields map[string]string
	}{
		"valid": {
			in: settings{BaseURL: "https://example.com", Charset: "iso-8859-1", Skipped: "x"},
		},
		"missing required": {
			in:        settings{Skipped: "x"},
			expFields: map[string]string{"base_url": "This field is required"},
		},
		"translated messages": {
			in: settings{BaseURL: "https://example.com", Workers: -1, Charset: "klingon", Skipped: "x", Plain: 11},
			expFields: map[string]string{
				"workers": "workers must be 0 or greater",
				"charset": "charset must name a supported character set",
				"Plain":   "Plain must be 10 or less",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := validate.Check(tc.in)

			if tc.expFields == nil {
				if err != nil {
					t.Fatalf("exp no error, got %v", err)
				}
				return
			}

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("exp FieldErrors, got %T: %v", err, err)
			}
			if diff := cmp.Diff(tc.expFields, fe.Fields()); diff != "" {
				t.Errorf("field errors mismatch (-exp +got):\n%s", diff)
			}
		})
	}
}

func TestFieldErrors_Error(t *testing.T) {
	fe := validate.FieldErrors{
		{Field: "a", Err: "bad"},
		{Field: "b", Err: "worse"},
	}

	if got := fe.Error(); got != "a: bad; b: worse" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCheck_NotAStruct(t *testing.T) {
	if err := validate.Check(42); err == nil {
		t.Error("exp error for non-struct input")
	}
}
