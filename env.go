package otelboot

import (
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by the resolver and the resource builder.
const (
	EnvEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvHeaders        = "OTEL_EXPORTER_OTLP_HEADERS"
	EnvProtocol       = "OTEL_EXPORTER_OTLP_PROTOCOL"
	EnvServiceVersion = "SERVICE_VERSION"
	EnvDeployment     = "ENV"
)

// environment is a read-only snapshot of the process environment.
type environment struct {
	k *koanf.Koanf
}

// loadEnvironment snapshots the process environment. Keys are kept verbatim
// so lookups use the variable names above.
func loadEnvironment() environment {
	k := koanf.New(".")
	keep := func(s string) string { return s }
	if err := k.Load(env.Provider("", ".", keep), nil); err != nil {
		return environment{k: koanf.New(".")}
	}
	return environment{k: k}
}

// lookup returns the value of key and whether it is set to a non-empty value.
func (e environment) lookup(key string) (string, bool) {
	v := e.k.String(key)
	return v, v != ""
}
