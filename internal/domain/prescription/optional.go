package prescription

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Optional is an updatable field. A JSON null, an empty string or an absent
// key leave it unset, and an unset field never overwrites stored data.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Or returns the value when set, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// Merge returns a pointer to the new value when set, otherwise current.
func (o Optional[T]) Merge(current *T) *T {
	if !o.Set {
		return current
	}
	v := o.Value
	return &v
}

// Ptr returns the value as a pointer, nil when unset.
func (o Optional[T]) Ptr() *T {
	return o.Merge(nil)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	*o = Optional[T]{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	isString := len(data) > 0 && data[0] == '"'
	if isString {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			return nil
		}
	}

	switch p := any(&o.Value).(type) {
	case *string:
		if !isString {
			return fmt.Errorf("expected a string, got %s", data)
		}
		*p = raw
	case *float64:
		if !isString {
			raw = string(data)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		// NaN and infinities cannot be written back out as JSON
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid number %q", raw)
		}
		*p = f
	case *time.Time:
		if !isString {
			return fmt.Errorf("expected a date string, got %s", data)
		}
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		*p = t
	default:
		if err := json.Unmarshal(data, &o.Value); err != nil {
			return err
		}
	}
	o.Set = true
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts an ISO calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Ref is a required row reference. JSON numbers and numeric strings are
// accepted; zero means the reference is missing.
type Ref int64

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*r = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid reference %s", data)
	}
	*r = Ref(n)
	return nil
}
