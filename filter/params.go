package filter

import "github.com/shingyusik/scientific-analysis-agent/dataset"

// Params is the flat key/value form every parameter set round-trips through
// for persistence and tool calls. Values are scalars (float64, bool, string)
// or float vectors. Typed parameter structs convert to and from this form;
// unknown keys are ignored on read and missing keys fall back to defaults.
type Params map[string]any

// Clone returns a shallow copy with vector values duplicated, so a step's
// parameters are never shared with another step.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		switch vec := v.(type) {
		case []float64:
			c := make([]float64, len(vec))
			copy(c, vec)
			out[k] = c
		case []any:
			c := make([]any, len(vec))
			copy(c, vec)
			out[k] = c
		default:
			out[k] = v
		}
	}
	return out
}

// Float reads a numeric value, tolerating the integer types JSON and YAML
// decoders produce.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Bool reads a boolean value.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// String reads a string value.
func (p Params) String(key string, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Floats reads a float vector, tolerating []any from JSON decoding.
func (p Params) Floats(key string, def []float64) []float64 {
	switch v := p[key].(type) {
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			default:
				return def
			}
		}
		return out
	default:
		return def
	}
}

// Vec3 reads a 3-vector; anything but exactly three numbers yields def.
func (p Params) Vec3(key string, def dataset.Vec3) dataset.Vec3 {
	v := p.Floats(key, nil)
	if len(v) != 3 {
		return def
	}
	return dataset.Vec3{v[0], v[1], v[2]}
}
