package otelboot

import "maps"

// resolver returns a value and whether it has an opinion.
type resolver[T any] func() (T, bool)

// firstOpinion evaluates chain in order and returns the first value whose
// resolver has an opinion, or fallback when none does.
func firstOpinion[T any](fallback T, chain ...resolver[T]) T {
	for _, r := range chain {
		if v, ok := r(); ok {
			return v
		}
	}
	return fallback
}

func explicitString(s string) resolver[string] {
	return func() (string, bool) {
		return s, s != ""
	}
}

func envString(e environment, key string) resolver[string] {
	return func() (string, bool) {
		return e.lookup(key)
	}
}

func explicitHeaders(o *options) resolver[map[string]string] {
	return func() (map[string]string, bool) {
		if !o.headersSet {
			return nil, false
		}
		h := make(map[string]string, len(o.headers))
		maps.Copy(h, o.headers)
		return h, true
	}
}

// envAuthorization turns OTEL_EXPORTER_OTLP_HEADERS into a single
// Authorization header. The raw value is used as-is.
func envAuthorization(e environment) resolver[map[string]string] {
	return func() (map[string]string, bool) {
		v, ok := e.lookup(EnvHeaders)
		if !ok {
			return nil, false
		}
		return map[string]string{"Authorization": v}, true
	}
}

func (o *options) resolve(e environment) ServiceConfiguration {
	return ServiceConfiguration{
		ServiceName: o.serviceName,
		Endpoint: firstOpinion(DefaultEndpoint,
			explicitString(o.endpoint),
			envString(e, EnvEndpoint),
		),
		Headers: firstOpinion(map[string]string{},
			explicitHeaders(o),
			envAuthorization(e),
		),
		Protocol: Protocol(firstOpinion(string(ProtocolGRPC),
			explicitString(string(o.protocol)),
			envString(e, EnvProtocol),
		)),
	}
}

// Resolve computes the effective exporter configuration from opts and the
// process environment. It never fails and performs no validation.
//
// Endpoint: explicit non-empty value, then OTEL_EXPORTER_OTLP_ENDPOINT, then
// DefaultEndpoint. Headers: explicit value (even empty), then
// {"Authorization": $OTEL_EXPORTER_OTLP_HEADERS} when set, then an empty map.
func Resolve(opts ...Option) ServiceConfiguration {
	return newOptions(opts...).resolve(loadEnvironment())
}
