package mu

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Params is a key/value request payload. It is JSON-encoded for POST and
// PATCH and query-encoded for GET.
type Params map[string]any

// EncodeQuery serializes params the way PHP's http_build_query does: keys in
// sorted order, nil values and empty arrays omitted, booleans as 1/0, nested
// arrays as key[0]=v and nested maps as key[sub]=v.
//
// Every name in exceptions that is present in params with an empty value is
// appended as the literal marker name[]= so the API can tell "not sent" from
// "explicitly cleared".
func EncodeQuery(params Params, exceptions []string) string {
	var parts []string
	for _, key := range sortedKeys(params) {
		parts = appendQueryValue(parts, key, params[key])
	}
	for _, name := range exceptions {
		v, ok := params[name]
		if ok && isEmptyValue(v) {
			parts = append(parts, name+"[]=")
		}
	}
	return strings.Join(parts, "&")
}

func appendQueryValue(parts []string, key string, v any) []string {
	switch val := v.(type) {
	case nil:
		return parts
	case string:
		return append(parts, url.QueryEscape(key)+"="+url.QueryEscape(val))
	case bool:
		if val {
			return append(parts, url.QueryEscape(key)+"=1")
		}
		return append(parts, url.QueryEscape(key)+"=0")
	case json.Number:
		return append(parts, url.QueryEscape(key)+"="+url.QueryEscape(val.String()))
	case Params:
		return appendQueryMap(parts, key, val)
	case map[string]any:
		return appendQueryMap(parts, key, val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			parts = appendQueryValue(parts, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return parts
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return appendQueryMap(parts, key, m)
	case reflect.Pointer:
		if rv.IsNil() {
			return parts
		}
		return appendQueryValue(parts, key, rv.Elem().Interface())
	}
	return append(parts, url.QueryEscape(key)+"="+url.QueryEscape(fmt.Sprint(v)))
}

func appendQueryMap(parts []string, key string, m map[string]any) []string {
	for _, sub := range sortedKeys(m) {
		parts = appendQueryValue(parts, key+"["+sub+"]", m[sub])
	}
	return parts
}

// isEmptyValue mirrors PHP's empty(): nil, "", "0", zero numbers, false and
// empty arrays or maps.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == "" || val == "0"
	case bool:
		return !val
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
