package wire

import (
	"net/url"
	"slices"
	"strings"
)

// Param is a single query or form item. A nil Value encodes as a bare
// name with no "=value" part.
type Param struct {
	Name  string
	Value *string
}

// Params is an ordered mapping of names to optional values. Encoding
// follows slice order.
type Params []Param

// Value returns a pointer to v, for building Params literals.
func Value(v string) *string {
	return &v
}

// ParamsFromMap returns m as Params in ascending name order.
func ParamsFromMap(m map[string]*string) Params {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)

	params := make(Params, 0, len(m))
	for _, name := range names {
		params = append(params, Param{Name: name, Value: m[name]})
	}

	return params
}

// Set assigns value to name. An existing name keeps its position,
// a new name is appended.
func (p Params) Set(name string, value *string) Params {
	for i := range p {
		if p[i].Name == name {
			out := slices.Clone(p)
			out[i].Value = value
			return out
		}
	}

	return append(slices.Clip(p), Param{Name: name, Value: value})
}

// Get returns the value stored for name and whether name is present.
func (p Params) Get(name string) (*string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}

	return nil, false
}

// Map folds p into a map, later names overwriting earlier ones.
func (p Params) Map() map[string]*string {
	m := make(map[string]*string, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}

	return m
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}

	out := make(Params, len(p))
	for i, param := range p {
		out[i].Name = param.Name
		if param.Value != nil {
			out[i].Value = Value(*param.Value)
		}
	}

	return out
}

// Encode percent-encodes p as "name=value" pairs joined by "&".
// Spaces become %20 and a literal '+' is always %2B.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(param.Name))
		if param.Value != nil {
			b.WriteByte('=')
			b.WriteString(Escape(*param.Value))
		}
	}

	return b.String()
}

// Escape percent-encodes s for use as a query component.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseParams parses a percent-encoded query. Items without '=' are
// returned with a nil Value. Empty items are skipped.
func ParseParams(query string) (Params, error) {
	var params Params
	for item := range strings.SplitSeq(query, "&") {
		if item == "" {
			continue
		}

		rawName, rawValue, hasValue := strings.Cut(item, "=")

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, err
		}

		param := Param{Name: name}
		if hasValue {
			value, err := url.QueryUnescape(rawValue)
			if err != nil {
				return nil, err
			}
			param.Value = &value
		}

		params = append(params, param)
	}

	return params, nil
}

// MergeQuery appends params to the query already present on target.
// The target's own items come first, params follow in order. When target
// does not parse, it is returned unchanged.
func MergeQuery(target string, params Params) string {
	if len(params) == 0 {
		return target
	}

	u, err := url.Parse(target)
	if err != nil {
		return target
	}

	encoded := params.Encode()
	if u.RawQuery == "" {
		u.RawQuery = encoded
	} else {
		u.RawQuery = u.RawQuery + "&" + encoded
	}
	u.ForceQuery = false

	return u.String()
}
