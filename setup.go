package otelboot

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Setup configures tracing for the calling service and returns the installed
// provider.
//
// It runs, in order:
//
//  1. Resolve the exporter endpoint, headers and protocol
//  2. Build a resource with service.name (plus $SERVICE_VERSION and $ENV)
//  3. Install a new TracerProvider as the otel global
//  4. Attach an OTLP exporter behind a BatchSpanProcessor
//
// It also sets W3C TraceContext + Baggage as the global propagator unless
// WithoutPropagators is given, and routes otel SDK errors to the logger.
//
// Setup must run once, before any spans are created, and must not be called
// concurrently. Errors are returned as-is; deciding whether missing tracing
// is fatal is up to the caller. If the exporter cannot be built, the already
// installed provider is returned together with the error so it can be shut
// down.
//
// Example:
//
//	tp, err := otelboot.Setup(ctx, otelboot.WithServiceName("auth-service"))
//	if err != nil {
//		logger.Warn("tracing unavailable", zap.Error(err))
//	}
//	if tp != nil {
//		defer tp.Shutdown(ctx)
//	}
func Setup(ctx context.Context, opts ...Option) (*Provider, error) {
	o := newOptions(opts...)
	env := loadEnvironment()

	cfg := o.resolve(env)
	log := o.logger.With(zap.String("service", cfg.ServiceName))
	log.Debug("resolved exporter configuration",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("protocol", string(cfg.Protocol)),
		zap.Strings("headers", slices.Sorted(maps.Keys(cfg.Headers))),
	)

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("opentelemetry error", zap.Error(err))
	}))

	attrs := append(serviceAttributes(env), o.resourceAttrs...)
	res := BuildResource(cfg.ServiceName, attrs...)

	tp, err := Install(res, o.policy)
	if err != nil {
		return nil, fmt.Errorf("install tracer provider: %w", err)
	}

	if err := wire(ctx, tp, cfg, o); err != nil {
		return tp, fmt.Errorf("wire export pipeline: %w", err)
	}

	if o.propagators {
		otel.SetTextMapPropagator(
			propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			),
		)
	}

	log.Info("tracing initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("protocol", string(cfg.Protocol)),
	)
	return tp, nil
}
