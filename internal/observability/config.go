// Package observability wires structured logging, OpenTelemetry tracing and
// metrics, and the Prometheus scrape endpoint for the sizescope binary.
package observability

import "log/slog"

// defaultShutdownTimeoutSec bounds telemetry flush on exit.
const defaultShutdownTimeoutSec = 5

// Config controls observability initialization. The zero value logs text to
// stderr at info level with no-op telemetry providers.
type Config struct {
	// ServiceName identifies this binary in telemetry resources.
	ServiceName string

	// ServiceVersion is attached to telemetry resources when set.
	ServiceVersion string

	// Environment names the deployment environment, e.g. "prod".
	Environment string

	// OTLPEndpoint enables OTLP gRPC export when non-empty. Empty means
	// no-op tracer and meter providers with zero export overhead.
	OTLPEndpoint string

	// OTLPInsecure disables TLS on the OTLP connection.
	OTLPInsecure bool

	// OTLPHeaders are extra headers sent with OTLP exports.
	OTLPHeaders map[string]string

	// LogLevel is the minimum slog level.
	LogLevel slog.Level

	// LogJSON switches stderr logging to JSON.
	LogJSON bool

	// ShutdownTimeoutSec bounds the telemetry flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "sizescope",
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
