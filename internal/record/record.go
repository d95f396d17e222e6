// Package record provides safe navigation over untyped backend JSON.
//
// Backend payloads are decoded into generic values (map[string]any, []any,
// json.Number, string, bool, nil). Every accessor on Record tolerates a
// missing or mistyped step and returns a neutral value instead of failing:
// an empty Record for objects, nil for scalars, an empty slice for lists.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one backend JSON object. A nil Record behaves like an empty one.
type Record map[string]any

// From coerces a decoded JSON value into a Record. Anything that is not an
// object yields an empty Record.
func From(v any) Record {
	switch typed := v.(type) {
	case Record:
		return typed
	case map[string]any:
		return Record(typed)
	default:
		return Record{}
	}
}

// IsObject reports whether v decoded as a JSON object.
func IsObject(v any) bool {
	switch v.(type) {
	case Record, map[string]any:
		return true
	default:
		return false
	}
}

// Decode parses JSON keeping numbers as json.Number so pass-through values
// are re-encoded exactly as the backend sent them.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Value returns the raw value under key, or nil.
func (r Record) Value(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// ValueOr returns the raw value under key, or def when the key is absent.
// An explicit null is returned as nil, matching the backend's intent.
func (r Record) ValueOr(key string, def any) any {
	v, ok := r[key]
	if !ok {
		return def
	}
	return v
}

// Obj returns the nested object under key, or an empty Record.
func (r Record) Obj(key string) Record {
	return From(r.Value(key))
}

// Path walks nested objects and returns the final one.
func (r Record) Path(keys ...string) Record {
	cur := r
	for _, key := range keys {
		cur = cur.Obj(key)
	}
	return cur
}

// Str returns the value under key rendered as a string. Objects, lists and
// missing values yield nil.
func (r Record) Str(key string) *string {
	s, ok := scalarString(r.Value(key))
	if !ok {
		return nil
	}
	return &s
}

// StrOr is Str with a default for absent keys.
func (r Record) StrOr(key, def string) *string {
	if _, ok := r[key]; !ok {
		return &def
	}
	return r.Str(key)
}

// Descriptor returns the human-readable label of the coded reference under key.
func (r Record) Descriptor(key string) *string {
	return r.Obj(key).Str("descriptor")
}

// FirstStr returns the first non-empty string among keys.
func (r Record) FirstStr(keys ...string) *string {
	for _, key := range keys {
		if s := r.Str(key); s != nil && *s != "" {
			return s
		}
	}
	return nil
}

// Bool returns the boolean under key, or def when absent or not a boolean.
func (r Record) Bool(key string, def bool) bool {
	b, ok := r.Value(key).(bool)
	if !ok {
		return def
	}
	return b
}

// Flag decodes the backend's "1"/"0" convention: true iff the value renders as "1".
func (r Record) Flag(key string) bool {
	s, ok := scalarString(r.Value(key))
	return ok && s == "1"
}

// List returns the objects in the array under key. Non-array values yield an
// empty slice and non-object elements are skipped.
func (r Record) List(key string) []Record {
	items, ok := r.Value(key).([]any)
	if !ok {
		return []Record{}
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if IsObject(item) {
			out = append(out, From(item))
		}
	}
	return out
}

// Descriptors collects the descriptor of every element in the array under key.
func (r Record) Descriptors(key string) []*string {
	items := r.List(key)
	out := make([]*string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Str("descriptor"))
	}
	return out
}

// Collection returns the list of records stored under key in a backend
// list payload such as {"data": [...]} or {"Report_Entry": [...]}.
func Collection(payload any, key string) []Record {
	return From(payload).List(key)
}

// Number parses a quantity-like value. Strings and JSON numbers are accepted.
func Number(v any) (float64, bool) {
	switch typed := v.(type) {
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func scalarString(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case bool:
		return strconv.FormatBool(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case nil:
		return "", false
	case map[string]any, Record, []any:
		return "", false
	default:
		return fmt.Sprintf("%v", typed), true
	}
}
