package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Format selects the decoder used for a knowledge-base payload.
type Format int

const (
	// FormatAuto sniffs the payload: JSON when the first non-space byte is
	// '[' or '{', YAML otherwise.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// ErrEmptyPayload is returned when there is nothing to decode.
var ErrEmptyPayload = errors.New("knowledge base payload is empty")

// jsonAPI keeps integers exact so the version element survives decoding.
var jsonAPI = sonic.Config{UseInt64: true}.Froze()

// FormatFromPath guesses a Format from a file name extension.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".js"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	}
	return FormatAuto
}

// Decode decodes data using the given format.
func Decode(data []byte, format Format) (Value, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	}
	trimmed := strings.TrimLeft(string(data), " \t\r\n\ufeff")
	if trimmed == "" {
		return Value{}, ErrEmptyPayload
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// DecodeJSON decodes a JSON knowledge base.
func DecodeJSON(data []byte) (Value, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Value{}, ErrEmptyPayload
	}
	var raw any
	if err := jsonAPI.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return FromAny(raw)
}

// DecodeYAML decodes a YAML knowledge base. Sequences keep their order, so
// a hand-maintained YAML file can stand in for the published JSON.
func DecodeYAML(data []byte) (Value, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Value{}, ErrEmptyPayload
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return FromAny(raw)
}

// FromAny converts the generic output of a decoder (maps, slices, strings,
// numbers, booleans, nil) into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return Boolean(x), nil
	case string:
		return Str(x), nil
	case int:
		return Int(x), nil
	case int64:
		return Num(float64(x)), nil
	case uint64:
		return Num(float64(x)), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Value{}, fmt.Errorf("non-finite number %v", x)
		}
		return Num(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return Num(f), nil
	case []any:
		items := make([]Value, 0, len(x))
		for i, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: Array, arr: items}, nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			fields[k] = v
		}
		return Value{kind: Object, obj: fields}, nil
	case map[any]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("%v: %w", k, err)
			}
			fields[fmt.Sprint(k)] = v
		}
		return Value{kind: Object, obj: fields}, nil
	}
	return Value{}, fmt.Errorf("unsupported value of type %T", raw)
}
