package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"

	simplesecrets "github.com/simple-secrets/simple-secrets-go"
	"github.com/simple-secrets/simple-secrets-go/internal/vectors"
	"github.com/simple-secrets/simple-secrets-go/value"
)

const masterKeyEnv = "SIMPLE_SECRETS_MASTER_KEY"

const usage = "usage: testhelper <pack|unpack|identify|verify-vectors> [args]"

// Config holds the process streams and environment so run can be tested.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// DefaultConfig returns a Config wired to the real process.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

func run(args []string, cfg Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	switch args[1] {
	case "pack":
		return packCmd(cfg)
	case "unpack":
		return unpackCmd(cfg)
	case "identify":
		return identifyCmd(cfg)
	case "verify-vectors":
		path := ""
		if len(args) > 2 {
			path = args[2]
		}
		return verifyVectorsCmd(cfg, path)
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

// stderrLogger adapts the standard logger to the packet's logging interface.
type stderrLogger struct {
	l *stdlog.Logger
}

func newStderrLogger(w io.Writer) *stderrLogger {
	return &stderrLogger{l: stdlog.New(w, "testhelper: ", stdlog.LstdFlags)}
}

func (s *stderrLogger) Log(v ...interface{}) {
	s.l.Output(2, fmt.Sprintln(v...))
}

func (s *stderrLogger) Logf(format string, v ...interface{}) {
	s.l.Output(2, fmt.Sprintf(format, v...))
}

func newPacket(cfg Config) (*simplesecrets.Packet, error) {
	key := cfg.Getenv(masterKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", masterKeyEnv)
	}
	return simplesecrets.NewFromHex(key, simplesecrets.WithLogger(newStderrLogger(cfg.Stderr)))
}

type packOutput struct {
	Token string `json:"token"`
}

func packCmd(cfg Config) error {
	p, err := newPacket(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	v, err := readJSONValue(cfg.Stdin)
	if err != nil {
		return err
	}

	token, err := p.Pack(v)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	return json.NewEncoder(cfg.Stdout).Encode(packOutput{Token: token})
}

type unpackInput struct {
	Token string `json:"token"`
}

type unpackOutput struct {
	OK    bool        `json:"ok"`
	Value interface{} `json:"value"`
}

func unpackCmd(cfg Config) error {
	p, err := newPacket(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	var in unpackInput
	if err := json.NewDecoder(cfg.Stdin).Decode(&in); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	v, ok, err := p.Unpack(in.Token)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	return json.NewEncoder(cfg.Stdout).Encode(unpackOutput{OK: ok, Value: toJSON(v)})
}

type identifyOutput struct {
	Identity string `json:"identity"`
}

func identifyCmd(cfg Config) error {
	p, err := newPacket(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	return json.NewEncoder(cfg.Stdout).Encode(identifyOutput{Identity: hex.EncodeToString(p.Identity())})
}

type verifyOutput struct {
	Passed int      `json:"passed"`
	Failed []string `json:"failed"`
}

func verifyVectorsCmd(cfg Config, path string) error {
	var (
		suite *vectors.Suite
		err   error
	)
	if path == "" {
		suite, err = vectors.Compat()
	} else {
		suite, err = vectors.Load(path)
	}
	if err != nil {
		return err
	}

	out := verifyOutput{Failed: []string{}}
	for _, vec := range suite.Vectors {
		if err := verifyVector(suite, vec); err != nil {
			out.Failed = append(out.Failed, fmt.Sprintf("%s: %v", vec.Name, err))
			continue
		}
		out.Passed++
	}

	if err := json.NewEncoder(cfg.Stdout).Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if len(out.Failed) > 0 {
		return fmt.Errorf("%d of %d vectors failed", len(out.Failed), len(suite.Vectors))
	}
	return nil
}

func verifyVector(suite *vectors.Suite, vec vectors.Vector) error {
	want, err := vec.Value.Build()
	if err != nil {
		return err
	}

	if vec.Create != "" {
		r, err := suite.Rand()
		if err != nil {
			return err
		}
		p, err := simplesecrets.NewFromHex(suite.MasterKey, simplesecrets.WithRandReader(r))
		if err != nil {
			return err
		}
		token, err := p.Pack(want)
		p.Close()
		if err != nil {
			return fmt.Errorf("pack: %w", err)
		}
		if token != vec.Create {
			return errors.New("create token mismatch")
		}
	}

	p, err := simplesecrets.NewFromHex(suite.MasterKey)
	if err != nil {
		return err
	}
	defer p.Close()

	for i, token := range vec.Recover {
		got, ok, err := p.Unpack(token)
		if err != nil {
			return fmt.Errorf("recover[%d]: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("recover[%d]: token rejected", i)
		}
		if !recovered(got, want) {
			return fmt.Errorf("recover[%d]: got %s, want %s", i, got, want)
		}
	}
	return nil
}

// recovered reports whether got matches want, accepting legacy raw strings
// for binary values.
func recovered(got, want value.Value) bool {
	if want.Kind() == value.KindBinary && got.Kind() == value.KindString {
		return bytes.Equal(got.Bytes(), want.Bytes())
	}
	return got.Equal(want)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
