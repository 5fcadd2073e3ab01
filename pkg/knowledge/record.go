package knowledge

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Field is one key/value pair of a [Record].
type Field struct {
	Key   string
	Value any
}

// Record is an ordered mapping ingested by [Node.AddRecord].
//
// Values are scalars (string, bool, int, int64, float64), []any, or a
// nested Record. Order is preserved so that ingestion follows the order
// of the source document.
type Record []Field

// RecordFromMap converts m into a Record with keys in sorted order.
// Nested maps and slices are converted recursively.
func RecordFromMap(m map[string]any) Record {
	keys := slices.Sorted(maps.Keys(m))
	rec := make(Record, 0, len(keys))
	for _, k := range keys {
		rec = append(rec, Field{Key: k, Value: normalizeValue(m[k])})
	}
	return rec
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value under the first of keys holding a non-empty
// scalar, formatted as text. A list contributes its first scalar element.
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		v, ok := r.Get(k)
		if !ok {
			continue
		}
		if list, ok := v.([]any); ok {
			if len(list) == 0 {
				continue
			}
			v = list[0]
		}
		if s, ok := scalarString(v); ok && s != "" {
			return s
		}
	}
	return ""
}

// Without returns a copy of r lacking keys.
func (r Record) Without(keys ...string) Record {
	out := make(Record, 0, len(r))
	for _, f := range r {
		if !slices.Contains(keys, f.Key) {
			out = append(out, f)
		}
	}
	return out
}

// Flatten renders r as "k: v, k2: v2".
func (r Record) Flatten() string {
	parts := make([]string, 0, len(r))
	for _, f := range r {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Key, valueString(f.Value)))
	}
	return strings.Join(parts, ", ")
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return RecordFromMap(x)
	case Record:
		return x
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case []Record:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case int:
		return int64(x)
	case float32:
		return float64(x)
	}
	return v
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	}
	return "", false
}

func valueString(v any) string {
	if s, ok := scalarString(v); ok {
		return s
	}
	switch x := v.(type) {
	case Record:
		return "{" + x.Flatten() + "}"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = valueString(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
