package instrumentation

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common span attribute keys
//
// SECURITY WARNING: Never put actual token values or client secrets on spans.
// Subject tokens, exchanged access tokens and introspected tokens are credentials.
const (
	AttrClientID        = "oauth.client_id"         // Client identifier (non-secret)
	AttrGrantType       = "oauth.grant_type"        // OAuth grant type
	AttrResource        = "oauth.resource"          // Target resource of a token exchange
	AttrTokenType       = "oauth.token_type"        //nolint:gosec // Token type (Bearer, etc.) - NOT the actual token
	AttrIssuedTokenType = "oauth.issued_token_type" //nolint:gosec // Issued token type identifier
	AttrTokenActive     = "oauth.token.active"      //nolint:gosec // Introspection result (boolean)
	AttrExpiresIn       = "oauth.expires_in"        // Token expiry duration
	AttrError           = "oauth.error"             // Error code

	AttrHTTPEndpoint   = "http.endpoint"
	AttrHTTPMethod     = "http.method"
	AttrHTTPStatusCode = "http.status_code"
)

// RecordError records an error on a span with proper status codes (nil-safe)
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks a span as successful (nil-safe)
func SetSpanSuccess(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// SetSpanAttributes sets attributes on a span (nil-safe)
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span != nil {
		span.SetAttributes(attrs...)
	}
}

// AddClientAttributes adds the calling client's identity and grant type (nil-safe)
func AddClientAttributes(span trace.Span, clientID, grantType string) {
	if clientID != "" {
		SetSpanAttributes(span, attribute.String(AttrClientID, clientID))
	}
	if grantType != "" {
		SetSpanAttributes(span, attribute.String(AttrGrantType, grantType))
	}
}

// AddHTTPAttributes adds HTTP request attributes to a span (nil-safe)
func AddHTTPAttributes(span trace.Span, method, endpoint string, statusCode int) {
	SetSpanAttributes(span,
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPEndpoint, endpoint),
		attribute.Int(AttrHTTPStatusCode, statusCode),
	)
}

// AddOAuthErrorAttributes adds the RFC 6749 error code returned by the server (nil-safe)
func AddOAuthErrorAttributes(span trace.Span, code string) {
	if code != "" {
		SetSpanAttributes(span, attribute.String(AttrError, code))
	}
}
