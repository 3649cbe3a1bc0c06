package sanitize

import (
	"encoding/json"
	"strconv"
)

const (
	MaxKeyLen      = 50
	MaxScalarLen   = 200
	MaxListItems   = 20
	MaxListItemLen = 100
	MaxNestedLen   = 100

	// Unsupported replaces values of a kind the bag does not store.
	Unsupported = "[unsupported]"
)

// Kind tags a decoded JSON value.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// KindOf classifies v as produced by encoding/json (or a Go literal of the same shapes).
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case string:
		return KindString
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return KindNumber
	case bool:
		return KindBool
	case []interface{}, []string:
		return KindList
	case map[string]interface{}, map[string]string:
		return KindMap
	default:
		return KindOther
	}
}

// Metadata sanitizes a free-form mapping key by key.
func Metadata(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		key := Text(k, MaxKeyLen)
		if key == "" {
			continue
		}
		out[key] = Value(v)
	}
	return out
}

// Value applies the per-kind caps: scalars become text of at most MaxScalarLen runes, lists keep
// MaxListItems entries of MaxListItemLen runes, mappings are flattened to one level of strings.
func Value(v interface{}) interface{} {
	switch KindOf(v) {
	case KindString, KindNumber, KindBool:
		return Text(scalarText(v), MaxScalarLen)
	case KindList:
		return list(v)
	case KindMap:
		return flatten(v)
	default:
		return Unsupported
	}
}

func list(v interface{}) []string {
	var items []interface{}
	switch t := v.(type) {
	case []interface{}:
		items = t
	case []string:
		items = make([]interface{}, len(t))
		for i, s := range t {
			items[i] = s
		}
	}
	if len(items) > MaxListItems {
		items = items[:MaxListItems]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, nestedText(item))
	}
	return out
}

func flatten(v interface{}) map[string]string {
	out := map[string]string{}
	add := func(k string, item interface{}) {
		if key := Text(k, MaxKeyLen); key != "" {
			out[key] = nestedText(item)
		}
	}
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			add(k, item)
		}
	case map[string]string:
		for k, item := range t {
			add(k, item)
		}
	}
	return out
}

func nestedText(v interface{}) string {
	switch KindOf(v) {
	case KindString, KindNumber, KindBool:
		return Text(scalarText(v), MaxNestedLen)
	default:
		return Unsupported
	}
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
