package vectors

import (
	_ "embed"
)

//go:embed testdata/compat.yaml
var compatYAML []byte

// Compat returns the published compatibility suite shared by all
// simple-secrets implementations.
func Compat() (*Suite, error) {
	return Parse(compatYAML)
}
