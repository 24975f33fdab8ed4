package otelboot

import (
	"sync"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider is an SDK TracerProvider that remembers its resource and the span
// processors attached through it.
//
// The embedded *sdktrace.TracerProvider exposes Tracer, ForceFlush and
// Shutdown. Flushing and shutting down remain the caller's job.
type Provider struct {
	*sdktrace.TracerProvider

	res *resource.Resource

	mu         sync.Mutex
	processors []sdktrace.SpanProcessor
}

func newProvider(res *resource.Resource) *Provider {
	return &Provider{
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithResource(res)),
		res:            res,
	}
}

// Resource returns the resource the provider was built with.
func (p *Provider) Resource() *resource.Resource {
	return p.res
}

// AddSpanProcessor registers sp with the provider. Processors accumulate in
// registration order; nothing is replaced.
func (p *Provider) AddSpanProcessor(sp sdktrace.SpanProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.TracerProvider.RegisterSpanProcessor(sp)
	p.processors = append(p.processors, sp)
}

// SpanProcessors returns a copy of the processors added via AddSpanProcessor.
func (p *Provider) SpanProcessors() []sdktrace.SpanProcessor {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]sdktrace.SpanProcessor, len(p.processors))
	copy(out, p.processors)
	return out
}
