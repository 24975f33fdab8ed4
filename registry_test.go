package otelboot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInstall_SetsGlobal(t *testing.T) {
	resetGlobals(t)
	assert.Nil(t, Active())

	res := BuildResource("svc")
	tp, err := Install(res, ReplaceExisting)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.Same(t, tp, Active())
	assert.True(t, IsGlobal(tp))
	assert.Same(t, res, tp.Resource())
	assert.Empty(t, tp.SpanProcessors())
}

func TestInstall_ReplaceExisting(t *testing.T) {
	resetGlobals(t)

	first, err := Install(BuildResource("svc"), ReplaceExisting)
	require.NoError(t, err)
	second, err := Install(BuildResource("svc"), ReplaceExisting)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = first.Shutdown(context.Background())
		_ = second.Shutdown(context.Background())
	})

	assert.NotSame(t, first, second)
	assert.Same(t, second, Active())
	assert.True(t, IsGlobal(second))
	assert.False(t, IsGlobal(first))
}

func TestInstall_RejectExisting(t *testing.T) {
	resetGlobals(t)

	first, err := Install(BuildResource("svc"), RejectExisting)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second, err := Install(BuildResource("other"), RejectExisting)
	assert.ErrorIs(t, err, ErrAlreadyInstalled)
	assert.Nil(t, second)
	assert.Same(t, first, Active())
	assert.True(t, IsGlobal(first))
}

func TestIsGlobal_Nil(t *testing.T) {
	assert.False(t, IsGlobal(nil))
}

func TestProviderFromContext(t *testing.T) {
	resetGlobals(t)

	ctx := context.Background()
	assert.Equal(t, otel.GetTracerProvider(), ProviderFromContext(ctx))

	tp := noop.NewTracerProvider()
	ctx = ContextWithProvider(ctx, tp)
	assert.Equal(t, tp, ProviderFromContext(ctx))
	assert.NotNil(t, Tracer(ctx, "test"))
}
