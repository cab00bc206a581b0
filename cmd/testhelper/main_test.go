package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	simplesecrets "github.com/simple-secrets/simple-secrets-go"
	"github.com/simple-secrets/simple-secrets-go/internal/vectors"
	"github.com/simple-secrets/simple-secrets-go/value"
)

const testKey = "eda00b0f46f6518d4c77944480a0b9b0a7314ad45e124521e490263c2ea217ad"

func testConfig(stdin string, env map[string]string) (Config, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return Config{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return env[k] },
	}, &stdout, &stderr
}

func keyEnv() map[string]string {
	return map[string]string{masterKeyEnv: testKey}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Stdin != os.Stdin {
		t.Error("DefaultConfig().Stdin should be os.Stdin")
	}
	if cfg.Stdout != os.Stdout {
		t.Error("DefaultConfig().Stdout should be os.Stdout")
	}
	if cfg.Stderr != os.Stderr {
		t.Error("DefaultConfig().Stderr should be os.Stderr")
	}
	if cfg.Getenv == nil {
		t.Error("DefaultConfig().Getenv should be set")
	}
}

func TestRun_Usage(t *testing.T) {
	cfg, _, _ := testConfig("", nil)

	if err := run([]string{"testhelper"}, cfg); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("run() error = %v, want usage", err)
	}
	if err := run([]string{"testhelper", "bogus"}, cfg); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("run() error = %v, want unknown command", err)
	}
}

func TestRun_MissingKey(t *testing.T) {
	for _, cmd := range []string{"pack", "unpack", "identify"} {
		t.Run(cmd, func(t *testing.T) {
			cfg, _, _ := testConfig(`"x"`, nil)
			err := run([]string{"testhelper", cmd}, cfg)
			if err == nil || !strings.Contains(err.Error(), masterKeyEnv) {
				t.Errorf("run(%s) error = %v, want missing %s", cmd, err, masterKeyEnv)
			}
		})
	}
}

func TestRun_Identify(t *testing.T) {
	cfg, stdout, _ := testConfig("", keyEnv())

	if err := run([]string{"testhelper", "identify"}, cfg); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var out identifyOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Identity != "5bb9753c969f" {
		t.Errorf("identity = %s, want 5bb9753c969f", out.Identity)
	}
}

func TestRun_PackUnpack(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"string", `"hello"`},
		{"null", `null`},
		{"integer", `65234`},
		{"float", `1.5`},
		{"array", `[1, "two", true]`},
		{"object", `{"user": "alice", "scopes": ["read"]}`},
		{"binary", `{"$binary": "MjIyMjI"}`},
		{"nested binary", `{"blob": {"$binary": ""}, "tags": [{"$binary": "AP8"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, stdout, _ := testConfig(tt.input, keyEnv())
			if err := run([]string{"testhelper", "pack"}, cfg); err != nil {
				t.Fatalf("pack error = %v", err)
			}

			var packed packOutput
			if err := json.Unmarshal(stdout.Bytes(), &packed); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(packed.Token, "W7l1PJaf") {
				t.Errorf("token %q lacks the key identity prefix", packed.Token)
			}

			in, _ := json.Marshal(unpackInput{Token: packed.Token})
			cfg, stdout, _ = testConfig(string(in), keyEnv())
			if err := run([]string{"testhelper", "unpack"}, cfg); err != nil {
				t.Fatalf("unpack error = %v", err)
			}

			var got struct {
				OK    bool            `json:"ok"`
				Value json.RawMessage `json:"value"`
			}
			if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if !got.OK {
				t.Fatal("unpack reported ok = false")
			}
			if !jsonEqual(t, got.Value, []byte(tt.input)) {
				t.Errorf("value = %s, want %s", got.Value, tt.input)
			}
		})
	}
}

func TestRun_UnpackRejected(t *testing.T) {
	suite, err := vectors.Compat()
	if err != nil {
		t.Fatal(err)
	}

	in, _ := json.Marshal(unpackInput{Token: suite.Vectors[0].Create})
	env := map[string]string{masterKeyEnv: strings.Repeat("cd", 32)}
	cfg, stdout, stderr := testConfig(string(in), env)

	if err := run([]string{"testhelper", "unpack"}, cfg); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != `{"ok":false,"value":null}` {
		t.Errorf("stdout = %s", got)
	}
	if !strings.Contains(stderr.String(), "rejected") {
		t.Errorf("stderr = %q, want rejection log", stderr.String())
	}
}

func TestRun_BadInput(t *testing.T) {
	tests := []struct {
		cmd   string
		input string
	}{
		{"pack", `{not json`},
		{"unpack", `{not json`},
		{"unpack", `{"token": "not base64!"}`},
		{"pack", `{"$binary": 12}`},
		{"pack", `{"$binary": "not+base64"}`},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+" "+tt.input, func(t *testing.T) {
			cfg, _, _ := testConfig(tt.input, keyEnv())
			if err := run([]string{"testhelper", tt.cmd}, cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRun_VerifyVectors(t *testing.T) {
	cfg, stdout, _ := testConfig("", nil)

	if err := run([]string{"testhelper", "verify-vectors"}, cfg); err != nil {
		t.Fatalf("run() error = %v\n%s", err, stdout)
	}

	var out verifyOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Passed != 6 || len(out.Failed) != 0 {
		t.Errorf("passed = %d, failed = %v", out.Passed, out.Failed)
	}
}

func TestRun_VerifyVectors_Failure(t *testing.T) {
	suite, err := vectors.Compat()
	if err != nil {
		t.Fatal(err)
	}
	suite.Vectors[0].Create = suite.Vectors[1].Create
	suite.Vectors[2].Recover = []string{suite.Vectors[3].Create}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := suite.Save(path); err != nil {
		t.Fatal(err)
	}

	cfg, stdout, _ := testConfig("", nil)
	if err := run([]string{"testhelper", "verify-vectors", path}, cfg); err == nil {
		t.Fatal("expected error for broken suite")
	}

	var out verifyOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Passed != 4 || len(out.Failed) != 2 {
		t.Errorf("passed = %d, failed = %v", out.Passed, out.Failed)
	}
}

func TestReadJSONValue_Numbers(t *testing.T) {
	v, err := readJSONValue(strings.NewReader(`[1, -2, 18446744073709551615, 2.5]`))
	if err != nil {
		t.Fatal(err)
	}

	items := v.Items()
	if items[0].AsInt() != 1 || items[1].AsInt() != -2 {
		t.Errorf("integers = %s, %s", items[0], items[1])
	}
	if items[2].AsUint() != 18446744073709551615 {
		t.Errorf("uint64 = %s", items[2])
	}
	if items[3].AsFloat() != 2.5 {
		t.Errorf("float = %s", items[3])
	}
}

func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var x, y interface{}
	if err := json.Unmarshal(a, &x); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &y); err != nil {
		t.Fatal(err)
	}
	xs, _ := json.Marshal(x)
	ys, _ := json.Marshal(y)
	return bytes.Equal(xs, ys)
}

func TestRun_UnpackJSONShapes(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{
			name: "integer keys",
			v:    value.Map(value.Pair{Key: value.Int(1), Value: value.String("one")}),
			want: `{"1":"one"}`,
		},
		{
			name: "mixed keys",
			v: value.Map(
				value.KV("a", value.Int(1)),
				value.Pair{Key: value.Bool(true), Value: value.Nil()},
			),
			want: `{"a":1,"true":null}`,
		},
		{
			name: "binary",
			v:    value.Binary([]byte("222")),
			want: `{"$binary":"MjIy"}`,
		},
		{
			name: "not a number",
			v:    value.Array(value.Float(math.NaN()), value.Float(math.Inf(-1))),
			want: `["NaN","-Inf"]`,
		},
	}

	p, err := simplesecrets.NewFromHex(testKey)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := p.Pack(tt.v)
			if err != nil {
				t.Fatal(err)
			}

			in, _ := json.Marshal(unpackInput{Token: token})
			cfg, stdout, _ := testConfig(string(in), keyEnv())
			if err := run([]string{"testhelper", "unpack"}, cfg); err != nil {
				t.Fatalf("unpack error = %v", err)
			}

			var got struct {
				OK    bool            `json:"ok"`
				Value json.RawMessage `json:"value"`
			}
			if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if !got.OK {
				t.Fatal("unpack reported ok = false")
			}
			if !jsonEqual(t, got.Value, []byte(tt.want)) {
				t.Errorf("value = %s, want %s", got.Value, tt.want)
			}
		})
	}
}

func TestReadJSONValue_Binary(t *testing.T) {
	v, err := readJSONValue(strings.NewReader(`[{"$binary": "AP8"}, "AP8", {"$binary": "AP8", "other": 1}]`))
	if err != nil {
		t.Fatal(err)
	}

	items := v.Items()
	if items[0].Kind() != value.KindBinary || !bytes.Equal(items[0].Bytes(), []byte{0x00, 0xff}) {
		t.Errorf("tagged binary = %s", items[0])
	}
	if items[1].Kind() != value.KindString {
		t.Errorf("plain string = %s, want text", items[1])
	}
	if items[2].Kind() != value.KindMap || items[2].Len() != 2 {
		t.Errorf("object with extra keys = %s, want a map", items[2])
	}
}
