package value

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// maxDepth bounds the nesting of arrays and maps accepted by Unmarshal.
const maxDepth = 512

var (
	// ErrUnsupportedType is returned for MessagePack extension types and for
	// Go types that have no Value representation.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrTrailingData is returned when bytes follow the first encoded value.
	ErrTrailingData = errors.New("trailing data after value")

	// ErrTooDeep is returned when nesting exceeds the decoder limit.
	ErrTooDeep = errors.New("value nested too deeply")
)

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// Marshal encodes v as MessagePack using the most compact representation of
// every scalar, so that independent encoders produce identical bytes.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.EncodeMsgpack(msgpack.NewEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one MessagePack value from data.
func Unmarshal(data []byte) (Value, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, fmt.Errorf("msgpack: %w", err)
	}
	if r.Len() != 0 {
		return Value{}, fmt.Errorf("msgpack: %w: %d bytes", ErrTrailingData, r.Len())
	}
	return v, nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindNil:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindUint:
		return enc.EncodeUint(v.u)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindBinary:
		if v.bin == nil {
			return enc.EncodeBytes([]byte{})
		}
		return enc.EncodeBytes(v.bin)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.items)); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := enc.EncodeMapLen(len(v.pairs)); err != nil {
			return err
		}
		for _, p := range v.pairs {
			if err := p.Key.EncodeMsgpack(enc); err != nil {
				return err
			}
			if err := p.Value.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, v.kind)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	decoded, err := decodeValue(dec, 0)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeValue(dec *msgpack.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, ErrTooDeep
	}

	c, err := dec.PeekCode()
	if err != nil {
		return Value{}, err
	}

	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return Value{}, err
		}
		return Nil(), nil

	case c == msgpcode.False || c == msgpcode.True:
		b, err := dec.DecodeBool()
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil

	case c == msgpcode.Uint8 || c == msgpcode.Uint16 || c == msgpcode.Uint32 || c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return Value{}, err
		}
		return Uint(u), nil

	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8 || c == msgpcode.Int16 || c == msgpcode.Int32 || c == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil

	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil

	// Legacy encoders use the str codes ("raw") for binary data as well.
	case msgpcode.IsFixedString(c), c == msgpcode.Str8 || c == msgpcode.Str16 || c == msgpcode.Str32:
		s, err := dec.DecodeString()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil

	case c == msgpcode.Bin8 || c == msgpcode.Bin16 || c == msgpcode.Bin32:
		b, err := dec.DecodeBytes()
		if err != nil {
			return Value{}, err
		}
		return Binary(b), nil

	case msgpcode.IsFixedArray(c), c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, capHint(n))
		for i := 0; i < n; i++ {
			item, err := decodeValue(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil

	case msgpcode.IsFixedMap(c), c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return Value{}, err
		}
		pairs := make([]Pair, 0, capHint(n))
		for i := 0; i < n; i++ {
			key, err := decodeValue(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			val, err := decodeValue(dec, depth+1)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: key, Value: val})
		}
		return Map(pairs...), nil
	}

	return Value{}, fmt.Errorf("%w: code 0x%02x", ErrUnsupportedType, c)
}

// capHint keeps a hostile length prefix from forcing a huge allocation
// before any element has been read.
func capHint(n int) int {
	if n > 1024 {
		return 1024
	}
	return n
}
