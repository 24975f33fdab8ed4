package otelboot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	tracesPath  = "v1/traces"
	metricsPath = "v1/metrics"
)

var (
	// ErrInvalidEndpoint means the endpoint is not an http(s) URL with a host.
	ErrInvalidEndpoint = errors.New("invalid collector endpoint")
	// ErrUnsupportedProtocol means the protocol is neither grpc nor http/protobuf.
	ErrUnsupportedProtocol = errors.New("unsupported OTLP protocol")
)

// ExporterError reports a failure to construct an exporter.
type ExporterError struct {
	Endpoint string
	Protocol Protocol
	Err      error
}

func (e *ExporterError) Error() string {
	return fmt.Sprintf("otelboot: %s exporter for %q: %v", e.Protocol, e.Endpoint, e.Err)
}

func (e *ExporterError) Unwrap() error {
	return e.Err
}

// parseEndpoint checks that raw is connectable as an OTLP target. It does
// not touch the network.
func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	return u, nil
}

// signalURL appends the per-signal path used by OTLP over HTTP to the base
// endpoint, e.g. http://collector:4318 -> http://collector:4318/v1/traces.
func signalURL(base *url.URL, signal string) string {
	u := *base
	u.Path = path.Join("/", u.Path, signal)
	return u.String()
}

func newSpanExporter(ctx context.Context, cfg ServiceConfiguration, o *options) (sdktrace.SpanExporter, error) {
	if o.spanExporter != nil {
		return o.spanExporter, nil
	}

	fail := func(err error) error {
		return &ExporterError{Endpoint: cfg.Endpoint, Protocol: cfg.Protocol, Err: err}
	}

	u, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fail(err)
	}

	var exp sdktrace.SpanExporter
	switch cfg.Protocol {
	case ProtocolGRPC:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpointURL(u.String()),
			otlptracegrpc.WithHeaders(cfg.Headers),
		}
		if o.grpcConn != nil {
			opts = append(opts, otlptracegrpc.WithGRPCConn(o.grpcConn))
		}
		exp, err = otlptracegrpc.New(ctx, opts...)
	case ProtocolHTTPProtobuf:
		exp, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(signalURL(u, tracesPath)),
			otlptracehttp.WithHeaders(cfg.Headers),
		)
	default:
		return nil, fail(fmt.Errorf("%w: %q", ErrUnsupportedProtocol, cfg.Protocol))
	}
	if err != nil {
		return nil, fail(err)
	}
	return exp, nil
}

// Wire builds a span exporter for cfg, wraps it in a batching processor with
// SDK default batching and appends it to p.
//
// The exporter does not connect until the first export. Calling Wire again
// on the same provider adds another processor.
func Wire(ctx context.Context, p *Provider, cfg ServiceConfiguration, opts ...Option) error {
	return wire(ctx, p, cfg, newOptions(opts...))
}

func wire(ctx context.Context, p *Provider, cfg ServiceConfiguration, o *options) error {
	exp, err := newSpanExporter(ctx, cfg, o)
	if err != nil {
		return err
	}
	p.AddSpanProcessor(sdktrace.NewBatchSpanProcessor(exp))
	return nil
}
