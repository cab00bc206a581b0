// Package vectors loads and writes compatibility suites: a master key, the
// nonce and IV that were fed to the packer, and for each sample value the
// token it must pack to and the tokens it must unpack from.
//
// Suites are YAML so that other implementations can produce and consume
// them without a Go toolchain.
package vectors

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simple-secrets/simple-secrets-go/value"
)

// ErrInvalidSuite is returned when a suite file is structurally wrong.
var ErrInvalidSuite = errors.New("invalid vector suite")

// Suite is a set of vectors sharing one master key and random source.
type Suite struct {
	MasterKey string   `yaml:"master_key"`
	Nonce     string   `yaml:"nonce"`
	IV        string   `yaml:"iv"`
	Vectors   []Vector `yaml:"vectors"`
}

// Vector is one sample value with its expected tokens.
type Vector struct {
	Name  string    `yaml:"name"`
	Value ValueSpec `yaml:"value"`
	// Create is the token the value must pack to. It may be empty when the
	// producing implementation could not be made deterministic.
	Create  string   `yaml:"create,omitempty"`
	Recover []string `yaml:"recover,omitempty"`
}

// ValueSpec is the YAML shape of a value.Value.
type ValueSpec struct {
	Kind    string      `yaml:"kind"`
	Text    string      `yaml:"text,omitempty"`
	Hex     string      `yaml:"hex,omitempty"`
	Int     int64       `yaml:"int,omitempty"`
	Uint    uint64      `yaml:"uint,omitempty"`
	Bool    bool        `yaml:"bool,omitempty"`
	Float   float64     `yaml:"float,omitempty"`
	Items   []ValueSpec `yaml:"items,omitempty"`
	Entries []EntrySpec `yaml:"entries,omitempty"`
}

// EntrySpec is a single text-keyed map entry.
type EntrySpec struct {
	Key   string    `yaml:"key"`
	Value ValueSpec `yaml:"value"`
}

// Load reads a suite from a YAML file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML suite.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the hex fields and every value description.
func (s *Suite) Validate() error {
	if _, err := s.MasterKeyBytes(); err != nil {
		return err
	}
	if _, err := s.randomBytes(); err != nil {
		return err
	}
	for i, v := range s.Vectors {
		if v.Name == "" {
			return fmt.Errorf("%w: vector %d has no name", ErrInvalidSuite, i)
		}
		if _, err := v.Value.Build(); err != nil {
			return fmt.Errorf("%w: vector %q: %v", ErrInvalidSuite, v.Name, err)
		}
	}
	return nil
}

// Save writes the suite to path as YAML.
func (s *Suite) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create suite file: %w", err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the suite to w as YAML.
func (s *Suite) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode suite: %w", err)
	}
	return enc.Close()
}

// MasterKeyBytes decodes the suite's hex master key.
func (s *Suite) MasterKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(s.MasterKey)
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("%w: master_key must be non-empty hex", ErrInvalidSuite)
	}
	return key, nil
}

// Rand returns a reader that yields nonce || iv over and over, reproducing
// the random draws of one Pack call per cycle.
func (s *Suite) Rand() (io.Reader, error) {
	data, err := s.randomBytes()
	if err != nil {
		return nil, err
	}
	return &cyclingReader{data: data}, nil
}

func (s *Suite) randomBytes() ([]byte, error) {
	nonce, err := hex.DecodeString(s.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrInvalidSuite, err)
	}
	iv, err := hex.DecodeString(s.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: iv: %v", ErrInvalidSuite, err)
	}
	if len(nonce)+len(iv) == 0 {
		return nil, fmt.Errorf("%w: nonce and iv are empty", ErrInvalidSuite)
	}
	return append(nonce, iv...), nil
}

type cyclingReader struct {
	data []byte
	off  int
}

func (r *cyclingReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		c := copy(p[n:], r.data[r.off:])
		n += c
		r.off = (r.off + c) % len(r.data)
	}
	return n, nil
}

// Build converts the description into a value.Value.
func (vs ValueSpec) Build() (value.Value, error) {
	switch vs.Kind {
	case "nil":
		return value.Nil(), nil
	case "bool":
		return value.Bool(vs.Bool), nil
	case "int":
		return value.Int(vs.Int), nil
	case "uint":
		// Uint stores values up to MaxInt64 as KindInt.
		return value.Uint(vs.Uint), nil
	case "float":
		return value.Float(vs.Float), nil
	case "string":
		return value.String(vs.Text), nil
	case "binary":
		b, err := hex.DecodeString(vs.Hex)
		if err != nil {
			return value.Value{}, fmt.Errorf("binary hex: %w", err)
		}
		return value.Binary(b), nil
	case "array":
		items := make([]value.Value, 0, len(vs.Items))
		for _, item := range vs.Items {
			v, err := item.Build()
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.Array(items...), nil
	case "map":
		pairs := make([]value.Pair, 0, len(vs.Entries))
		for _, e := range vs.Entries {
			v, err := e.Value.Build()
			if err != nil {
				return value.Value{}, err
			}
			pairs = append(pairs, value.KV(e.Key, v))
		}
		return value.Map(pairs...), nil
	default:
		return value.Value{}, fmt.Errorf("unknown kind %q", vs.Kind)
	}
}

// Describe is the inverse of Build. Maps must have text keys.
func Describe(v value.Value) (ValueSpec, error) {
	switch v.Kind() {
	case value.KindNil:
		return ValueSpec{Kind: "nil"}, nil
	case value.KindBool:
		return ValueSpec{Kind: "bool", Bool: v.AsBool()}, nil
	case value.KindInt:
		return ValueSpec{Kind: "int", Int: v.AsInt()}, nil
	case value.KindUint:
		return ValueSpec{Kind: "uint", Uint: v.AsUint()}, nil
	case value.KindFloat:
		return ValueSpec{Kind: "float", Float: v.AsFloat()}, nil
	case value.KindString:
		return ValueSpec{Kind: "string", Text: v.AsString()}, nil
	case value.KindBinary:
		return ValueSpec{Kind: "binary", Hex: hex.EncodeToString(v.Bytes())}, nil
	case value.KindArray:
		vs := ValueSpec{Kind: "array"}
		for _, item := range v.Items() {
			d, err := Describe(item)
			if err != nil {
				return ValueSpec{}, err
			}
			vs.Items = append(vs.Items, d)
		}
		return vs, nil
	case value.KindMap:
		vs := ValueSpec{Kind: "map"}
		for _, p := range v.Pairs() {
			if p.Key.Kind() != value.KindString {
				return ValueSpec{}, fmt.Errorf("map key of kind %s", p.Key.Kind())
			}
			d, err := Describe(p.Value)
			if err != nil {
				return ValueSpec{}, err
			}
			vs.Entries = append(vs.Entries, EntrySpec{Key: p.Key.AsString(), Value: d})
		}
		return vs, nil
	default:
		return ValueSpec{}, fmt.Errorf("unsupported kind %s", v.Kind())
	}
}
