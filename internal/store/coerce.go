package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fields is one decoded JSON object with numbers kept as json.Number.
type Fields map[string]any

// DecodeFields unmarshals a raw JSON object, preserving numeric precision.
func DecodeFields(raw json.RawMessage) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields Fields
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if fields == nil {
		return nil, errors.New("record must be an object")
	}
	return fields, nil
}

// Has reports whether key is present and not null.
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// Int coerces a JSON number or numeric string into an int.
func Int(value any) (int, error) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), nil
		}
		f, err := v.Float64()
		if err != nil || !integral(f) {
			return 0, fmt.Errorf("%s is not an integer", v)
		}
		return int(f), nil
	case float64:
		if !integral(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	case nil:
		return 0, errors.New("empty numeric value")
	default:
		return 0, fmt.Errorf("unsupported numeric value %v", v)
	}
}

// integral reports whether f is a whole number that fits in an int.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt && f < -float64(math.MinInt)
}

// Finite reports whether f is neither NaN nor an infinity.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float coerces a JSON number or numeric string into a finite float64.
func Float(value any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch v := value.(type) {
	case json.Number:
		if f, err = v.Float64(); err != nil {
			return 0, fmt.Errorf("%s is not a finite number", v)
		}
	case float64:
		f = v
	case string:
		if f, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
	case nil:
		return 0, errors.New("empty numeric value")
	default:
		return 0, fmt.Errorf("unsupported numeric value %v", v)
	}
	if !Finite(f) {
		return 0, fmt.Errorf("%v is not a finite number", value)
	}
	return f, nil
}

// String renders any JSON scalar as text. Objects and arrays are rejected.
func String(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported text value %v", v)
	}
}

// OptionalString is String for nullable fields: null stays nil.
func OptionalString(value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, err := String(value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
