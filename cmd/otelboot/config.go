package main

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/edr3x/otelboot"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// fileConfig is the optional YAML config:
//
//	service_name: api
//	endpoint: http://collector:4317
//	protocol: grpc
//	headers:
//	  Authorization: Bearer abc
type fileConfig struct {
	ServiceName string            `koanf:"service_name"`
	Endpoint    string            `koanf:"endpoint"`
	Protocol    string            `koanf:"protocol"`
	Headers     map[string]string `koanf:"headers"`

	hasServiceName bool
	hasHeaders     bool
}

func loadFileConfig(path string) (*fileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	fc.hasServiceName = k.Exists("service_name")
	fc.hasHeaders = k.Exists("headers")
	return &fc, nil
}

// options turns the file into explicit otelboot options. Keys missing from
// the file yield no option so the environment still applies.
func (fc *fileConfig) options() []otelboot.Option {
	var opts []otelboot.Option
	if fc.hasServiceName {
		opts = append(opts, otelboot.WithServiceName(fc.ServiceName))
	}
	if fc.Endpoint != "" {
		opts = append(opts, otelboot.WithEndpoint(fc.Endpoint))
	}
	if fc.Protocol != "" {
		opts = append(opts, otelboot.WithProtocol(otelboot.Protocol(fc.Protocol)))
	}
	if fc.hasHeaders {
		opts = append(opts, otelboot.WithHeaders(fc.Headers))
	}
	return opts
}
