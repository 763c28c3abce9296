package restapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"libratrack-admin-backend/internal/domain"
)

// The backend answers collections as a bare array, as {"data": [...]}, or
// paginated as {"data": {"data": [...]}}. Everything is normalized here so
// services only ever see typed slices.

const maxEnvelopeDepth = 2

// ErrMalformedResponse marks a successful answer whose body does not have the
// expected shape.
var ErrMalformedResponse = errors.New("malformed response")

// malformed reports a decode failure of op as a dependency fault.
func malformed(op string, err error) error {
	return &domain.DependencyError{Op: op, Err: err}
}

func decodeCollection[T any](body []byte) ([]T, error) {
	return decodeCollectionDepth[T](body, 0)
}

func decodeCollectionDepth[T any](body []byte, depth int) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body: %w", ErrMalformedResponse)
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode collection: %v: %w", err, ErrMalformedResponse)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	case '{':
		if depth >= maxEnvelopeDepth {
			return nil, fmt.Errorf("collection nested too deep: %w", ErrMalformedResponse)
		}
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %v: %w", err, ErrMalformedResponse)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil, fmt.Errorf("envelope has no data field: %w", ErrMalformedResponse)
		}
		return decodeCollectionDepth[T](env.Data, depth+1)
	}
	return nil, fmt.Errorf("unexpected collection shape: %w", ErrMalformedResponse)
}

func decodeObject[T any](body []byte) (*T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object: %w", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("decode object: %v: %w", err, ErrMalformedResponse)
	}
	if inner, ok := fields["data"]; ok {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '{' {
			trimmed = inner
		}
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode object: %v: %w", err, ErrMalformedResponse)
	}
	return &out, nil
}

// flexInt accepts 12, "12" and null. Values outside the int32 range are
// rejected rather than truncated.
type flexInt int32

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("integer out of range: %s", b)
		}
		return fmt.Errorf("not an integer: %s", b)
	}
	*f = flexInt(n)
	return nil
}

// flexBool accepts true/false, 0/1 and their quoted forms.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(strings.Trim(string(b), `"`)) {
	case "1", "true":
		*f = true
	case "0", "false", "", "null":
		*f = false
	default:
		return fmt.Errorf("not a boolean: %s", b)
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// flexTime accepts the timestamp and date formats the backend emits.
// Missing or unparseable values decode to the zero time; consumers treat a
// zero time as absent.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(b []byte) error {
	*f = flexTime(parseTime(strings.Trim(string(b), `"`)))
	return nil
}

func parseTime(s string) time.Time {
	if s == "" || s == "null" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
