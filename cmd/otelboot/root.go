package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/edr3x/otelboot"
)

type flags struct {
	configPath  string
	serviceName string
	endpoint    string
	protocol    string
	headers     map[string]string
	timeout     time.Duration
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "otelboot",
		Short: "Inspect and test OpenTelemetry exporter configuration",
		Long: `otelboot resolves OTLP exporter settings the same way services using the
otelboot package do, and can send a test span to the collector.

Flags win over the config file, which wins over OTEL_EXPORTER_OTLP_* variables.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.StringVar(&f.serviceName, "service-name", otelboot.DefaultServiceName, "service.name resource attribute")
	pf.StringVar(&f.endpoint, "endpoint", "", "collector URL (default $OTEL_EXPORTER_OTLP_ENDPOINT or "+otelboot.DefaultEndpoint+")")
	pf.StringVar(&f.protocol, "protocol", "", "grpc or http/protobuf")
	pf.StringToStringVar(&f.headers, "header", nil, "exporter header key=value (repeatable)")

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the effective exporter configuration",
		Long: `Print the effective exporter configuration. Header values are redacted.

Examples:
  # With environment only
  OTEL_EXPORTER_OTLP_HEADERS="Bearer abc" otelboot resolve

  # Explicit endpoint
  otelboot resolve --endpoint http://collector:4317`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), otelboot.Resolve(opts...))
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Set up tracing and export one test span",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), logger, f.timeout, append(opts, otelboot.WithLogger(logger))...)
		},
	}
	checkCmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Second, "flush and shutdown timeout")

	root.AddCommand(resolveCmd, checkCmd)
	return root
}

// options merges the config file and the flags that were set explicitly.
func (f *flags) options(cmd *cobra.Command) ([]otelboot.Option, error) {
	var opts []otelboot.Option
	if f.configPath != "" {
		fc, err := loadFileConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fc.options()...)
	}

	changed := cmd.Flags().Changed
	if changed("service-name") || f.configPath == "" {
		opts = append(opts, otelboot.WithServiceName(f.serviceName))
	}
	if changed("endpoint") {
		opts = append(opts, otelboot.WithEndpoint(f.endpoint))
	}
	if changed("protocol") {
		opts = append(opts, otelboot.WithProtocol(otelboot.Protocol(f.protocol)))
	}
	if changed("header") {
		opts = append(opts, otelboot.WithHeaders(f.headers))
	}
	return opts, nil
}

func runCheck(ctx context.Context, out io.Writer, logger *zap.Logger, timeout time.Duration, opts ...otelboot.Option) error {
	tp, err := otelboot.Setup(ctx, opts...)
	if err != nil {
		logger.Warn("tracing unavailable, continuing with noop provider", zap.Error(err))
		if tp != nil {
			_ = tp.Shutdown(ctx)
		}
		otel.SetTracerProvider(noop.NewTracerProvider())
		fmt.Fprintln(out, "tracing unavailable")
		return nil
	}

	ctx = otelboot.ContextWithProvider(ctx, tp.TracerProvider)
	_, span := otelboot.Tracer(ctx, "otelboot").Start(ctx, "otelboot.check")
	span.End()

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := tp.ForceFlush(shutdownCtx); err != nil {
		return fmt.Errorf("flush test span: %w", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	fmt.Fprintln(out, "test span exported")
	return nil
}

func printConfig(out io.Writer, cfg otelboot.ServiceConfiguration) {
	fmt.Fprintf(out, "service.name: %s\n", cfg.ServiceName)
	fmt.Fprintf(out, "endpoint:     %s\n", cfg.Endpoint)
	fmt.Fprintf(out, "protocol:     %s\n", cfg.Protocol)
	keys := slices.Sorted(maps.Keys(cfg.Headers))
	if len(keys) == 0 {
		fmt.Fprintln(out, "headers:      (none)")
		return
	}
	fmt.Fprintln(out, "headers:")
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %s\n", k, redact(cfg.Headers[k]))
	}
}

func redact(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", len(v)-4)
}
