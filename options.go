package simplesecrets

import (
	"io"

	"github.com/go-log/log"
)

// packetConfig holds configuration for a Packet.
type packetConfig struct {
	rand    io.Reader
	logger  log.Logger
	metrics *Metrics
}

// Option configures a Packet.
type Option func(*packetConfig)

// WithRandReader sets the source of nonces and IVs.
// It must be cryptographically secure outside of tests.
// Default: crypto/rand.Reader
func WithRandReader(r io.Reader) Option {
	return func(c *packetConfig) {
		c.rand = r
	}
}

// WithLogger sets the logger used for rejected tokens and random source
// failures. Key material and plaintext are never logged.
// Default: log.DefaultLogger (discards output unless replaced)
func WithLogger(l log.Logger) Option {
	return func(c *packetConfig) {
		c.logger = l
	}
}

// WithMetrics records pack and unpack outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *packetConfig) {
		c.metrics = m
	}
}
