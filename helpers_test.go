package otelboot

import (
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace/noop"
)

// clearEnv blanks every variable the package reads. Empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvEndpoint, EnvHeaders, EnvProtocol, EnvServiceVersion, EnvDeployment} {
		t.Setenv(key, "")
	}
}

// resetGlobals forgets installed providers before and after the test.
func resetGlobals(t *testing.T) {
	t.Helper()
	reset := func() {
		registry.mu.Lock()
		registry.active = nil
		registry.mu.Unlock()
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	}
	reset()
	t.Cleanup(reset)
}
