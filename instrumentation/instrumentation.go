package instrumentation

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	// DefaultServiceName is the service name used when none is provided
	DefaultServiceName = "authclient"

	// DefaultServiceVersion is the default service version used when none is provided
	DefaultServiceVersion = "unknown"

	instrumentationPrefix = "github.com/giantswarm/authclient/"
)

// Config holds instrumentation configuration
type Config struct {
	// ServiceName is the name of the service embedding the client
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled controls whether instrumentation is active.
	// When false, no-op providers are used regardless of TracerProvider and MeterProvider.
	Enabled bool

	// TracerProvider is used for spans when Enabled is true.
	// If nil, the global provider from otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider

	// MeterProvider is used for metrics when Enabled is true.
	// If nil, the global provider from otel.GetMeterProvider() is used.
	MeterProvider metric.MeterProvider

	// ShutdownProviders makes Shutdown also shut down TracerProvider and MeterProvider
	// when they expose a Shutdown(context.Context) error method (as the SDK providers do).
	ShutdownProviders bool

	// Resource allows custom resource attributes.
	// If nil, a resource is created with service name and version.
	Resource *resource.Resource
}

// Instrumentation provides OpenTelemetry instrumentation components
type Instrumentation struct {
	config   Config
	resource *resource.Resource

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider

	metrics *Metrics

	// Shutdown functions (must be registered during New() only, not thread-safe after initialization)
	shutdownFuncs []func(context.Context) error
	shutdownOnce  sync.Once
}

// New creates a new instrumentation instance
func New(config Config) (*Instrumentation, error) {
	if config.ServiceName == "" {
		config.ServiceName = DefaultServiceName
	}
	if config.ServiceVersion == "" {
		config.ServiceVersion = DefaultServiceVersion
	}

	var res *resource.Resource
	var err error
	if config.Resource != nil {
		res = config.Resource
	} else {
		res, err = resource.New(
			context.Background(),
			resource.WithAttributes(
				semconv.ServiceName(config.ServiceName),
				semconv.ServiceVersion(config.ServiceVersion),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create resource: %w", err)
		}
	}

	inst := &Instrumentation{
		config:   config,
		resource: res,
	}

	if config.Enabled {
		inst.initializeProviders()
	} else {
		// Use no-op providers for zero overhead
		inst.meterProvider = noop.NewMeterProvider()
		inst.tracerProvider = tracenoop.NewTracerProvider()
	}

	inst.metrics, err = newMetrics(inst)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return inst, nil
}

// NewDisabled returns instrumentation backed by no-op providers.
// It never fails, which makes it suitable as a default.
func NewDisabled() *Instrumentation {
	inst := &Instrumentation{
		config: Config{
			ServiceName:    DefaultServiceName,
			ServiceVersion: DefaultServiceVersion,
		},
		resource:       resource.Empty(),
		meterProvider:  noop.NewMeterProvider(),
		tracerProvider: tracenoop.NewTracerProvider(),
	}
	// Instrument creation cannot fail on the no-op meter provider
	inst.metrics, _ = newMetrics(inst)
	return inst
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// initializeProviders selects the configured providers, falling back to the otel globals
func (i *Instrumentation) initializeProviders() {
	i.tracerProvider = i.config.TracerProvider
	if i.tracerProvider == nil {
		i.tracerProvider = otel.GetTracerProvider()
	}
	i.meterProvider = i.config.MeterProvider
	if i.meterProvider == nil {
		i.meterProvider = otel.GetMeterProvider()
	}

	if !i.config.ShutdownProviders {
		return
	}
	if s, ok := i.config.TracerProvider.(shutdowner); ok {
		i.shutdownFuncs = append(i.shutdownFuncs, s.Shutdown)
	}
	if s, ok := i.config.MeterProvider.(shutdowner); ok {
		i.shutdownFuncs = append(i.shutdownFuncs, s.Shutdown)
	}
}

// Shutdown runs registered shutdown hooks once. Calling it again is a no-op.
func (i *Instrumentation) Shutdown(ctx context.Context) error {
	var shutdownErr error

	i.shutdownOnce.Do(func() {
		for _, fn := range i.shutdownFuncs {
			if err := fn(ctx); err != nil {
				// Capture first error, but continue shutting down other components
				if shutdownErr == nil {
					shutdownErr = err
				}
			}
		}
	})

	return shutdownErr
}

// Meter returns a named meter for the given scope.
// The full name will be "github.com/giantswarm/authclient/{scope}".
func (i *Instrumentation) Meter(scope string) metric.Meter {
	return i.meterProvider.Meter(instrumentationPrefix + scope)
}

// Tracer returns a named tracer for the given scope.
// The full name will be "github.com/giantswarm/authclient/{scope}".
func (i *Instrumentation) Tracer(scope string) trace.Tracer {
	return i.tracerProvider.Tracer(instrumentationPrefix + scope)
}

// Metrics returns the metrics holder for recording metric values
func (i *Instrumentation) Metrics() *Metrics {
	return i.metrics
}

// TracerProvider returns the underlying tracer provider
func (i *Instrumentation) TracerProvider() trace.TracerProvider {
	return i.tracerProvider
}

// MeterProvider returns the underlying meter provider
func (i *Instrumentation) MeterProvider() metric.MeterProvider {
	return i.meterProvider
}

// Resource returns the service resource describing the embedding application
func (i *Instrumentation) Resource() *resource.Resource {
	return i.resource
}

// Enabled reports whether real (non no-op) providers are in use
func (i *Instrumentation) Enabled() bool {
	return i.config.Enabled
}
