//go:build !testcoverage

package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := run(os.Args, DefaultConfig()); err != nil {
		fatal("%v", err)
	}
}
