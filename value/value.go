// Package value defines the structured values that can travel inside a
// simple-secrets packet.
//
// A [Value] is a closed tagged union mirroring what MessagePack can carry
// faithfully across implementations: nil, booleans, integers, floats, text,
// binary blobs, ordered lists and key/value mappings. Maps keep their entries
// in insertion order so that serialization is deterministic, but [Value.Equal]
// compares them without regard to order.
//
// Basic usage:
//
//	v := value.Map(
//	    value.KV("user", value.String("alice")),
//	    value.KV("scopes", value.Array(value.String("read"), value.String("write"))),
//	)
//	data, err := value.Marshal(v)
package value

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	// KindUint holds integers above math.MaxInt64 only.
	KindUint
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindString: "string",
	KindBinary: "binary",
	KindArray:  "array",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a structured value. The zero Value is nil.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	u     uint64
	f     float64
	s     string
	bin   []byte
	items []Value
	pairs []Pair
}

// Pair is a single map entry.
type Pair struct {
	Key   Value
	Value Value
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint returns an integer value. Values that fit in an int64 are stored as
// KindInt so that equal numbers compare equal regardless of how they were built.
func Uint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return Value{kind: KindUint, u: u}
}

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Binary returns a binary value holding b. The slice is not copied.
func Binary(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindBinary, bin: b}
}

// Array returns an ordered list value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Map returns a mapping value with entries in the given order.
func Map(pairs ...Pair) Value {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Value{kind: KindMap, pairs: pairs}
}

// KV builds a map entry with a text key.
func KV(key string, v Value) Pair {
	return Pair{Key: String(key), Value: v}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsBool returns the boolean held by v, or false.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the integer held by v. Floats are truncated.
func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindUint:
		return int64(v.u)
	case KindFloat:
		return int64(v.f)
	}
	return 0
}

// AsUint returns the integer held by v as an unsigned number.
func (v Value) AsUint() uint64 {
	switch v.kind {
	case KindInt:
		return uint64(v.i)
	case KindUint:
		return v.u
	case KindFloat:
		return uint64(v.f)
	}
	return 0
}

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindUint:
		return float64(v.u)
	case KindFloat:
		return v.f
	}
	return 0
}

// AsString returns the text held by v, or "".
func (v Value) AsString() string { return v.s }

// Bytes returns the content of a binary or text value.
// Legacy MessagePack encoders write binary data as raw strings, so text
// values are accepted here too.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindBinary:
		return v.bin
	case KindString:
		return []byte(v.s)
	}
	return nil
}

// Items returns the elements of an array value.
func (v Value) Items() []Value { return v.items }

// Pairs returns the entries of a map value in insertion order.
func (v Value) Pairs() []Pair { return v.pairs }

// Len returns the number of elements of an array or map, or the byte length
// of a text or binary value.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return len(v.s)
	case KindBinary:
		return len(v.bin)
	case KindArray:
		return len(v.items)
	case KindMap:
		return len(v.pairs)
	}
	return 0
}

// Lookup returns the entry of a map value whose key is the given text.
func (v Value) Lookup(key string) (Value, bool) {
	for _, p := range v.pairs {
		if p.Key.kind == KindString && p.Key.s == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and o hold the same value. Map entries are matched
// by key, so their order does not matter.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	case KindBinary:
		return bytes.Equal(v.bin, o.bin)
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return pairsEqual(v.pairs, o.pairs)
	}
	return false
}

func pairsEqual(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))
	for _, pa := range a {
		found := false
		for j, pb := range b {
			if used[j] || !pa.Key.Equal(pb.Key) {
				continue
			}
			if !pa.Value.Equal(pb.Value) {
				return false
			}
			used[j] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

// String renders v for debugging.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindNil:
		sb.WriteString("nil")
	case KindBool:
		fmt.Fprintf(sb, "%t", v.b)
	case KindInt:
		fmt.Fprintf(sb, "%d", v.i)
	case KindUint:
		fmt.Fprintf(sb, "%d", v.u)
	case KindFloat:
		fmt.Fprintf(sb, "%g", v.f)
	case KindString:
		fmt.Fprintf(sb, "%q", v.s)
	case KindBinary:
		fmt.Fprintf(sb, "0x%x", v.bin)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.format(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.Key.format(sb)
			sb.WriteString(": ")
			p.Value.format(sb)
		}
		sb.WriteByte('}')
	}
}

// Interface converts v to plain Go values: nil, bool, int64, uint64, float64,
// string, []byte, []interface{} and maps. A map whose keys are all text
// becomes map[string]interface{}; any other map becomes
// map[interface{}]interface{} with binary keys converted to strings and
// array or map keys rendered with String.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBinary:
		return v.bin
	case KindArray:
		out := make([]interface{}, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		if v.textKeys() {
			out := make(map[string]interface{}, len(v.pairs))
			for _, p := range v.pairs {
				out[p.Key.s] = p.Value.Interface()
			}
			return out
		}
		out := make(map[interface{}]interface{}, len(v.pairs))
		for _, p := range v.pairs {
			out[p.Key.hashableKey()] = p.Value.Interface()
		}
		return out
	}
	return nil
}

func (v Value) textKeys() bool {
	for _, p := range v.pairs {
		if p.Key.kind != KindString {
			return false
		}
	}
	return true
}

func (v Value) hashableKey() interface{} {
	switch v.kind {
	case KindBinary:
		return string(v.bin)
	case KindArray, KindMap:
		return v.String()
	}
	return v.Interface()
}

// FromInterface converts plain Go values to a Value. It accepts the types
// produced by Interface plus the other integer and float widths, []string,
// and Value itself. Entries of Go maps are sorted by key so that the result
// serializes deterministically.
func FromInterface(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Binary(t), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Array(items...), nil
	case []interface{}:
		items := make([]Value, len(t))
		for i, e := range t {
			item, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Array(items...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]Pair, 0, len(t))
		for _, k := range keys {
			item, err := FromInterface(t[k])
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, KV(k, item))
		}
		return Map(pairs...), nil
	case map[interface{}]interface{}:
		pairs := make([]Pair, 0, len(t))
		for k, e := range t {
			key, err := FromInterface(k)
			if err != nil {
				return Value{}, err
			}
			item, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: key, Value: item})
		}
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Key.String() < pairs[j].Key.String()
		})
		return Map(pairs...), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
}
