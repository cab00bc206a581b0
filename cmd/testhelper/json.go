package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/simple-secrets/simple-secrets-go/value"
)

// binaryKey tags a binary value in JSON: {"$binary": "<unpadded base64url>"}.
// Plain JSON strings are always text.
const binaryKey = "$binary"

var errBadBinary = errors.New(`"$binary" must hold an unpadded base64url string`)

// readJSONValue decodes one JSON document, keeping integers exact.
func readJSONValue(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var x interface{}
	if err := dec.Decode(&x); err != nil {
		return value.Value{}, fmt.Errorf("parse input: %w", err)
	}
	return fromJSON(x)
}

func fromJSON(x interface{}) (value.Value, error) {
	switch t := x.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return value.Int(i), nil
		}
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return value.Uint(u), nil
		}
		f, err := t.Float64()
		if err != nil {
			return value.Value{}, fmt.Errorf("number %s: %w", t, err)
		}
		return value.Float(f), nil
	case []interface{}:
		items := make([]value.Value, 0, len(t))
		for _, e := range t {
			item, err := fromJSON(e)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, item)
		}
		return value.Array(items...), nil
	case map[string]interface{}:
		if raw, ok := t[binaryKey]; ok && len(t) == 1 {
			s, ok := raw.(string)
			if !ok {
				return value.Value{}, errBadBinary
			}
			b, err := base64.RawURLEncoding.DecodeString(s)
			if err != nil {
				return value.Value{}, fmt.Errorf("%w: %v", errBadBinary, err)
			}
			return value.Binary(b), nil
		}
		// FromInterface sorts the keys.
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			v, err := fromJSON(e)
			if err != nil {
				return value.Value{}, err
			}
			m[k] = v
		}
		return value.FromInterface(m)
	}
	return value.FromInterface(x)
}

// toJSON converts v into something encoding/json accepts. Binary values are
// tagged with binaryKey, non-finite floats become strings, and map keys that
// are not text are rendered with Value.String, so 1 becomes "1".
func toJSON(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindBinary:
		return map[string]string{binaryKey: base64.RawURLEncoding.EncodeToString(v.Bytes())}
	case value.KindFloat:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return f
	case value.KindArray:
		out := make([]interface{}, 0, v.Len())
		for _, item := range v.Items() {
			out = append(out, toJSON(item))
		}
		return out
	case value.KindMap:
		out := make(map[string]interface{}, v.Len())
		for _, p := range v.Pairs() {
			key := p.Key.String()
			if p.Key.Kind() == value.KindString {
				key = p.Key.AsString()
			}
			out[key] = toJSON(p.Value)
		}
		return out
	}
	return v.Interface()
}
