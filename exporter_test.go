package otelboot

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func shutdown(t *testing.T, p *Provider) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = p.Shutdown(ctx)
	})
}

func grpcConfig(endpoint string) ServiceConfiguration {
	return ServiceConfiguration{
		ServiceName: "svc",
		Endpoint:    endpoint,
		Headers:     map[string]string{},
		Protocol:    ProtocolGRPC,
	}
}

func TestWire_AttachesBatchProcessor(t *testing.T) {
	resetGlobals(t)
	ctx := context.Background()

	tp, err := Install(BuildResource("svc"), ReplaceExisting)
	require.NoError(t, err)
	shutdown(t, tp)

	exp := tracetest.NewInMemoryExporter()
	require.NoError(t, Wire(ctx, tp, grpcConfig(DefaultEndpoint), WithSpanExporter(exp)))
	require.Len(t, tp.SpanProcessors(), 1)

	_, span := tp.Tracer("test").Start(ctx, "op")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "op", spans[0].Name)
	name, _ := spans[0].Resource.Set().Value("service.name")
	assert.Equal(t, "svc", name.AsString())
}

func TestWire_Accumulates(t *testing.T) {
	resetGlobals(t)
	ctx := context.Background()

	tp, err := Install(BuildResource("svc"), ReplaceExisting)
	require.NoError(t, err)
	shutdown(t, tp)

	first := tracetest.NewInMemoryExporter()
	second := tracetest.NewInMemoryExporter()
	require.NoError(t, Wire(ctx, tp, grpcConfig(DefaultEndpoint), WithSpanExporter(first)))
	require.NoError(t, Wire(ctx, tp, grpcConfig(DefaultEndpoint), WithSpanExporter(second)))
	assert.Len(t, tp.SpanProcessors(), 2)

	_, span := tp.Tracer("test").Start(ctx, "op")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	assert.Len(t, first.GetSpans(), 1)
	assert.Len(t, second.GetSpans(), 1)
}

func TestWire_OTLPExportersAreLazy(t *testing.T) {
	for _, protocol := range []Protocol{ProtocolGRPC, ProtocolHTTPProtobuf} {
		t.Run(string(protocol), func(t *testing.T) {
			resetGlobals(t)

			tp, err := Install(BuildResource("svc"), ReplaceExisting)
			require.NoError(t, err)
			shutdown(t, tp)

			// Nothing listens here; construction must still succeed.
			cfg := grpcConfig("http://127.0.0.1:1")
			cfg.Protocol = protocol
			cfg.Headers = map[string]string{"Authorization": "Bearer abc"}

			require.NoError(t, Wire(context.Background(), tp, cfg))
			assert.Len(t, tp.SpanProcessors(), 1)
		})
	}
}

func TestWire_SharedGRPCConn(t *testing.T) {
	resetGlobals(t)

	conn, err := grpc.NewClient("127.0.0.1:1", grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	tp, err := Install(BuildResource("svc"), ReplaceExisting)
	require.NoError(t, err)
	shutdown(t, tp)

	require.NoError(t, Wire(context.Background(), tp, grpcConfig("http://127.0.0.1:1"), WithGRPCConn(conn)))
	assert.Len(t, tp.SpanProcessors(), 1)
}

func TestWire_ConstructionFailures(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		protocol Protocol
		want     error
	}{
		{"missing scheme", "localhost:4317", ProtocolGRPC, ErrInvalidEndpoint},
		{"unsupported scheme", "ftp://collector:4317", ProtocolGRPC, ErrInvalidEndpoint},
		{"missing host", "http://", ProtocolGRPC, ErrInvalidEndpoint},
		{"unparseable", "http://[::1", ProtocolHTTPProtobuf, ErrInvalidEndpoint},
		{"unknown protocol", "http://collector:4317", Protocol("thrift"), ErrUnsupportedProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)

			tp, err := Install(BuildResource("svc"), ReplaceExisting)
			require.NoError(t, err)
			shutdown(t, tp)

			cfg := grpcConfig(tt.endpoint)
			cfg.Protocol = tt.protocol

			err = Wire(context.Background(), tp, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var expErr *ExporterError
			require.True(t, errors.As(err, &expErr))
			assert.Equal(t, tt.endpoint, expErr.Endpoint)
			assert.Equal(t, tt.protocol, expErr.Protocol)

			assert.Empty(t, tp.SpanProcessors())
		})
	}
}

func TestSignalURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://collector:4318", "http://collector:4318/v1/traces"},
		{"http://collector:4318/", "http://collector:4318/v1/traces"},
		{"https://gateway.example.com/otlp", "https://gateway.example.com/otlp/v1/traces"},
	}

	for _, tt := range tests {
		u, err := url.Parse(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, signalURL(u, tracesPath))
	}
}
