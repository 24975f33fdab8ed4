package otelboot

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// BuildResource returns an immutable resource describing the service.
//
// service.name is always set to serviceName, which is not validated; an
// empty name is kept as-is. attrs are added alongside it but cannot replace
// service.name.
func BuildResource(serviceName string, attrs ...attribute.KeyValue) *resource.Resource {
	kvs := make([]attribute.KeyValue, 0, len(attrs)+1)
	kvs = append(kvs, attrs...)
	// Later keys win in an attribute set.
	kvs = append(kvs, semconv.ServiceName(serviceName))
	return resource.NewWithAttributes(semconv.SchemaURL, kvs...)
}

// serviceAttributes collects service.version from $SERVICE_VERSION and
// deployment.environment from $ENV when they are set.
func serviceAttributes(e environment) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if v, ok := e.lookup(EnvServiceVersion); ok {
		attrs = append(attrs, semconv.ServiceVersionKey.String(v))
	}
	if v, ok := e.lookup(EnvDeployment); ok {
		attrs = append(attrs, semconv.DeploymentEnvironmentKey.String(v))
	}
	return attrs
}
