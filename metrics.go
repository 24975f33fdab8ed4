package otelboot

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
)

func newMetricExporter(ctx context.Context, cfg ServiceConfiguration, o *options) (sdkmetric.Exporter, error) {
	if o.metricExporter != nil {
		return o.metricExporter, nil
	}

	fail := func(err error) error {
		return &ExporterError{Endpoint: cfg.Endpoint, Protocol: cfg.Protocol, Err: err}
	}

	u, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fail(err)
	}

	var exp sdkmetric.Exporter
	switch cfg.Protocol {
	case ProtocolGRPC:
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpointURL(u.String()),
			otlpmetricgrpc.WithHeaders(cfg.Headers),
		}
		if o.grpcConn != nil {
			opts = append(opts, otlpmetricgrpc.WithGRPCConn(o.grpcConn))
		}
		exp, err = otlpmetricgrpc.New(ctx, opts...)
	case ProtocolHTTPProtobuf:
		exp, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpointURL(signalURL(u, metricsPath)),
			otlpmetrichttp.WithHeaders(cfg.Headers),
		)
	default:
		return nil, fail(fmt.Errorf("%w: %q", ErrUnsupportedProtocol, cfg.Protocol))
	}
	if err != nil {
		return nil, fail(err)
	}
	return exp, nil
}

// SetupMetrics installs a global MeterProvider that exports to the same
// collector as the traces, using a PeriodicReader with SDK defaults.
//
// cfg is usually the result of Resolve and res the resource of the tracer
// provider, so both signals describe the same service:
//
//	cfg := otelboot.Resolve(otelboot.WithServiceName("api"))
//	tp, err := otelboot.Setup(ctx, otelboot.WithServiceName("api"))
//	...
//	mp, err := otelboot.SetupMetrics(ctx, cfg, tp.Resource())
//	defer mp.Shutdown(ctx)
func SetupMetrics(ctx context.Context, cfg ServiceConfiguration, res *resource.Resource, opts ...Option) (*sdkmetric.MeterProvider, error) {
	o := newOptions(opts...)

	exp, err := newMetricExporter(ctx, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	o.logger.Info("metrics initialized",
		zap.String("service", cfg.ServiceName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("protocol", string(cfg.Protocol)),
	)
	return mp, nil
}
