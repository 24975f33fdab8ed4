package otelboot

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
)

// InstallPolicy decides what Install does when this package already
// installed a provider in the process.
type InstallPolicy int

const (
	// ReplaceExisting installs the new provider over the previous one. The
	// previous provider is not shut down.
	ReplaceExisting InstallPolicy = iota
	// RejectExisting fails with ErrAlreadyInstalled and changes nothing.
	RejectExisting
)

// ErrAlreadyInstalled is returned by Install under RejectExisting.
var ErrAlreadyInstalled = errors.New("otelboot: tracer provider already installed")

var registry struct {
	mu     sync.Mutex
	active *Provider
}

// Install builds a Provider bound to res and makes it the process-wide
// tracer provider via otel.SetTracerProvider.
//
// Only providers installed by this package count for RejectExisting; a
// provider set directly with otel.SetTracerProvider is replaced silently.
func Install(res *resource.Resource, policy InstallPolicy) (*Provider, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if policy == RejectExisting && registry.active != nil {
		return nil, ErrAlreadyInstalled
	}

	p := newProvider(res)
	otel.SetTracerProvider(p.TracerProvider)
	registry.active = p
	return p, nil
}

// Active returns the provider most recently installed by this package, or
// nil if Install has not succeeded yet.
func Active() *Provider {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.active
}

// IsGlobal reports whether p is the provider otel.GetTracerProvider returns.
func IsGlobal(p *Provider) bool {
	if p == nil {
		return false
	}
	return otel.GetTracerProvider() == trace.TracerProvider(p.TracerProvider)
}

type providerKey struct{}

// ContextWithProvider returns a copy of ctx carrying tp, so request code can
// receive its provider explicitly instead of reading the global.
func ContextWithProvider(ctx context.Context, tp trace.TracerProvider) context.Context {
	return context.WithValue(ctx, providerKey{}, tp)
}

// ProviderFromContext returns the provider stored by ContextWithProvider,
// falling back to the otel global.
func ProviderFromContext(ctx context.Context) trace.TracerProvider {
	if tp, ok := ctx.Value(providerKey{}).(trace.TracerProvider); ok && tp != nil {
		return tp
	}
	return otel.GetTracerProvider()
}

// Tracer is shorthand for ProviderFromContext(ctx).Tracer(name, opts...).
func Tracer(ctx context.Context, name string, opts ...trace.TracerOption) trace.Tracer {
	return ProviderFromContext(ctx).Tracer(name, opts...)
}
