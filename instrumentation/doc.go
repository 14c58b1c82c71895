// Package instrumentation provides OpenTelemetry (OTEL) instrumentation for the authclient library.
//
// Every call to the authorization server produces one span and a set of metric
// observations. When instrumentation is not configured the client uses no-op
// providers, so there is no overhead.
//
// # Quick Start
//
//	tp := sdktrace.NewTracerProvider(...)
//	mp := sdkmetric.NewMeterProvider(...)
//
//	inst, err := instrumentation.New(instrumentation.Config{
//		ServiceName:       "my-resource-server",
//		ServiceVersion:    "1.0.0",
//		Enabled:           true,
//		TracerProvider:    tp,
//		MeterProvider:     mp,
//		ShutdownProviders: true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer inst.Shutdown(context.Background())
//
//	client, err := authclient.New(authclient.Config{
//		// ...
//		Instrumentation: inst,
//	})
//
// With Enabled set and no providers given, the global providers registered via
// otel.SetTracerProvider and otel.SetMeterProvider are used.
//
// # Available Metrics
//
//   - authclient.requests.total{operation, status} - Round trips to the authorization server
//   - authclient.request.duration{operation} - Round trip duration in milliseconds
//   - authclient.errors.total{operation, error_type} - Failed calls, error_type is one of
//     client_error, server_error, transport, decode
//
// # Spans
//
//   - authclient.exchange_token
//   - authclient.introspect_token
//
// # Security Considerations
//
// Token values and client secrets are never recorded. Only metadata such as the
// client ID, grant type, token type and introspection result end up in traces.
package instrumentation
