package otelboot

import (
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const (
	// DefaultServiceName is used when Setup is called without WithServiceName.
	DefaultServiceName = "sglang-server"

	// DefaultEndpoint is the collector address used when neither an explicit
	// endpoint nor OTEL_EXPORTER_OTLP_ENDPOINT is available.
	DefaultEndpoint = "http://localhost:4317"
)

// Protocol selects the OTLP transport used by the exporters.
type Protocol string

const (
	ProtocolGRPC         Protocol = "grpc"
	ProtocolHTTPProtobuf Protocol = "http/protobuf"
)

// ServiceConfiguration is the effective exporter configuration produced by
// Resolve. Endpoint is never empty and Headers is never nil. Values are
// resolved once and must be treated as read-only.
type ServiceConfiguration struct {
	ServiceName string
	Endpoint    string
	Headers     map[string]string
	Protocol    Protocol
}

// Option configures Resolve, Setup, Wire and SetupMetrics.
type Option func(*options)

type options struct {
	serviceName string

	endpoint   string
	headers    map[string]string
	headersSet bool
	protocol   Protocol

	policy        InstallPolicy
	propagators   bool
	resourceAttrs []attribute.KeyValue

	logger         *zap.Logger
	spanExporter   sdktrace.SpanExporter
	metricExporter sdkmetric.Exporter
	grpcConn       *grpc.ClientConn
}

func newOptions(opts ...Option) *options {
	o := &options{
		serviceName: DefaultServiceName,
		policy:      ReplaceExisting,
		propagators: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.L()
	}
	return o
}

// WithServiceName sets the service.name resource attribute. Any string is
// accepted, including the empty string.
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// WithEndpoint sets the collector URL, e.g. "http://collector:4317". An empty
// string means "not provided" and falls through to the environment.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithHeaders sets the exporter headers. Calling it with an empty or nil map
// still counts as an explicit value and disables OTEL_EXPORTER_OTLP_HEADERS.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
		o.headersSet = true
	}
}

// WithProtocol selects grpc or http/protobuf.
func WithProtocol(p Protocol) Option {
	return func(o *options) {
		o.protocol = p
	}
}

// WithInstallPolicy controls what happens when a provider was already
// installed by this package. Default is ReplaceExisting.
func WithInstallPolicy(p InstallPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithoutPropagators leaves the global text map propagator untouched.
func WithoutPropagators() Option {
	return func(o *options) {
		o.propagators = false
	}
}

// WithResourceAttributes adds attributes to the resource. service.name
// cannot be overridden this way.
func WithResourceAttributes(attrs ...attribute.KeyValue) Option {
	return func(o *options) {
		o.resourceAttrs = append(o.resourceAttrs, attrs...)
	}
}

// WithLogger sets the logger. Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSpanExporter overrides the OTLP span exporter (for testing or stdout
// output). Endpoint validation is skipped when set.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.spanExporter = exp
	}
}

// WithMetricExporter overrides the OTLP metric exporter.
func WithMetricExporter(exp sdkmetric.Exporter) Option {
	return func(o *options) {
		o.metricExporter = exp
	}
}

// WithGRPCConn makes the grpc exporters share an existing connection instead
// of dialing their own. The caller owns the connection and must close it.
func WithGRPCConn(conn *grpc.ClientConn) Option {
	return func(o *options) {
		o.grpcConn = conn
	}
}
