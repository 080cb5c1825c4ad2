package nodes

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/normalizing/m"
	"github.com/t2bot/url-media-nodes/util"
)

// Inputs are coerced node inputs keyed by field name.
type Inputs map[string]interface{}

func (i Inputs) String(name string) string {
	s, _ := i[name].(string)
	return s
}

func (i Inputs) Int(name string) int {
	v, _ := i[name].(int)
	return v
}

func (i Inputs) Float(name string) float64 {
	v, _ := i[name].(float64)
	return v
}

func (i Inputs) Bool(name string) bool {
	v, _ := i[name].(bool)
	return v
}

func (i Inputs) Images(name string) []*m.Image {
	switch v := i[name].(type) {
	case *m.Image:
		return []*m.Image{v}
	case []*m.Image:
		return v
	}
	return nil
}

func (i Inputs) Audios(name string) []*m.Audio {
	switch v := i[name].(type) {
	case *m.Audio:
		return []*m.Audio{v}
	case []*m.Audio:
		return v
	}
	return nil
}

func (i Inputs) Videos(name string) []*m.Video {
	switch v := i[name].(type) {
	case *m.Video:
		return []*m.Video{v}
	case []*m.Video:
		return v
	}
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// coerce converts a raw (usually JSON decoded) value to the Go type the field expects.
func coerce(f Field, v interface{}) (interface{}, error) {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, common.InvalidInput("%s must be a string", f.Name)
		}
		if len(f.Options) > 0 && !util.ArrayContains(f.Options, s) {
			return nil, common.InvalidInput("%s must be one of %s (got %s)", f.Name, strings.Join(f.Options, ", "), s)
		}
		return s, nil
	case TypeInt:
		n, ok := asFloat(v)
		if !ok || n != math.Trunc(n) {
			return nil, common.InvalidInput("%s must be an integer", f.Name)
		}
		if err := checkRange(f, n); err != nil {
			return nil, err
		}
		return int(n), nil
	case TypeFloat:
		n, ok := asFloat(v)
		if !ok {
			return nil, common.InvalidInput("%s must be a number", f.Name)
		}
		if err := checkRange(f, n); err != nil {
			return nil, err
		}
		return n, nil
	case TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, common.InvalidInput("%s must be a boolean", f.Name)
			}
			return parsed, nil
		}
		return nil, common.InvalidInput("%s must be a boolean", f.Name)
	case TypeImage:
		switch v.(type) {
		case *m.Image, []*m.Image:
			return v, nil
		}
	case TypeMask:
		if _, ok := v.(*m.Tensor); ok {
			return v, nil
		}
	case TypeAudio:
		switch v.(type) {
		case *m.Audio, []*m.Audio:
			return v, nil
		}
	case TypeVideo:
		switch v.(type) {
		case *m.Video, []*m.Video:
			return v, nil
		}
	}
	return nil, common.InvalidInput("%s has an unsupported value for type %s", f.Name, f.Type)
}

func checkRange(f Field, n float64) error {
	if f.Min != nil && n < *f.Min {
		return common.InvalidInput("%s must be at least %v (got %v)", f.Name, *f.Min, n)
	}
	if f.Max != nil && n > *f.Max {
		return common.InvalidInput("%s must be at most %v (got %v)", f.Name, *f.Max, n)
	}
	return nil
}

// prepareInputs applies defaults and coerces every declared field. Unknown keys are dropped.
func prepareInputs(schema Schema, raw map[string]interface{}) (Inputs, error) {
	inputs := make(Inputs)
	for _, f := range schema.Inputs {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			if f.Default != nil {
				v = f.Default
			} else if f.Optional {
				continue
			} else {
				return nil, common.InvalidInput("missing required input: %s", f.Name)
			}
		}
		c, err := coerce(f, v)
		if err != nil {
			return nil, err
		}
		inputs[f.Name] = c
	}
	return inputs, nil
}
