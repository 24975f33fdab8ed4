// Package otelboot wires OpenTelemetry tracing into a network service at
// startup. It resolves where spans go, describes the service with a
// resource, installs a process-wide TracerProvider and attaches a batching
// OTLP export pipeline.
//
// # Overview
//
// otelboot provides:
//
//   - Resolve: exporter configuration from explicit options or environment
//   - BuildResource: the service.name resource
//   - Install: a TracerProvider registered as the otel global
//   - Wire: OTLP exporter + BatchSpanProcessor attached to a provider
//   - Setup: all of the above, in that order
//   - SetupMetrics: an optional MeterProvider pointed at the same collector
//
// Span creation, sampling and request instrumentation are left to the
// caller and to the OpenTelemetry SDK.
//
// # Environment Variables
//
//	OTEL_EXPORTER_OTLP_ENDPOINT=http://collector:4317
//	    Collector URL used when WithEndpoint is not given (or is empty).
//	    Defaults to http://localhost:4317.
//
//	OTEL_EXPORTER_OTLP_HEADERS=Bearer <token>
//	    Sent as the Authorization header when WithHeaders is not given.
//	    The value is not parsed.
//
//	OTEL_EXPORTER_OTLP_PROTOCOL=grpc|http/protobuf
//	    Transport used when WithProtocol is not given. Defaults to grpc.
//
//	SERVICE_VERSION=string
//	    Added to the resource as service.version.
//
//	ENV=local|dev|prod
//	    Added to the resource as deployment.environment.
//
// # Precedence
//
// Each value is resolved by walking an ordered list of sources and taking
// the first that has an opinion. For the endpoint an empty string is "no
// opinion". For headers, any call to WithHeaders is an opinion, including
// WithHeaders(map[string]string{}), which suppresses the environment.
//
// # Tracing
//
// Call Setup at service startup, before request handling begins:
//
//	tp, err := otelboot.Setup(ctx,
//	    otelboot.WithServiceName("auth-service"),
//	    otelboot.WithLogger(logger),
//	)
//	if err != nil {
//	    logger.Warn("tracing unavailable", zap.Error(err))
//	}
//	if tp != nil {
//	    defer tp.Shutdown(ctx)
//	}
//
// Setup is not safe for concurrent use and is meant to run once.
//
// # Re-initialization
//
// The default policy, ReplaceExisting, installs a fresh provider over the
// previous one and leaves the old provider running; shut it down if it is
// no longer needed. WithInstallPolicy(RejectExisting) makes a second Setup
// fail with ErrAlreadyInstalled instead.
//
// Each Setup creates its own provider with exactly one processor. Calling
// Wire on an existing provider adds processors; it never replaces them.
//
// # Passing the provider
//
// Instead of reading the global, request code can receive the provider
// through its context:
//
//	ctx = otelboot.ContextWithProvider(ctx, tp)
//	...
//	ctx, span := otelboot.Tracer(ctx, "handler").Start(ctx, "GET /items")
//	defer span.End()
//
// # Errors
//
// Exporter construction fails with *ExporterError, wrapping
// ErrInvalidEndpoint or ErrUnsupportedProtocol. No connection is made during
// Setup; network failures surface later through the otel error handler,
// which Setup points at the configured zap logger.
package otelboot
