package authclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/giantswarm/authclient/instrumentation"
	"github.com/giantswarm/authclient/internal/util"
)

// Operation names used for spans, metrics and log messages
const (
	OperationExchangeToken   = "exchange_token"
	OperationIntrospectToken = "introspect_token"
)

// Client talks to the authorization server's token exchange and introspection endpoints.
// It authenticates every request with HTTP Basic auth built from the configured client
// credentials, which are resolved anew for each call.
//
// The client holds no mutable state and is safe for concurrent use.
// Every method performs exactly one HTTP request; there are no retries.
type Client struct {
	baseURL      ValueFunc
	clientID     ValueFunc
	clientSecret ValueFunc

	httpClient      *http.Client
	logger          *slog.Logger
	instrumentation *instrumentation.Instrumentation
	tracer          trace.Tracer
}

// New creates a new Client. The configured resolvers are not called until the first request.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.applyDefaults()

	return &Client{
		baseURL:         cfg.BaseURL,
		clientID:        cfg.ClientID,
		clientSecret:    cfg.ClientSecret,
		httpClient:      cfg.HTTPClient,
		logger:          cfg.Logger,
		instrumentation: cfg.Instrumentation,
		tracer:          cfg.Instrumentation.Tracer("client"),
	}, nil
}

// ExchangeToken exchanges subjectToken for an access token scoped to resource (RFC 8693).
//
// A response with a status outside 200-299 is returned as *HTTPError. Transport
// failures and undecodable success bodies are returned as wrapped errors.
// The success body is returned as sent by the server, without validation.
func (c *Client) ExchangeToken(ctx context.Context, resource, subjectToken string) (*TokenExchangeResponse, error) {
	req := tokenExchangeRequest{
		GrantType:          GrantTypeTokenExchange,
		Resource:           resource,
		RequestedTokenType: TokenTypeAccessToken,
		SubjectToken:       subjectToken,
		SubjectTokenType:   TokenTypeAccessToken,
	}

	var resp TokenExchangeResponse
	err := c.post(ctx, call{
		operation:  OperationExchangeToken,
		path:       TokenEndpointPath,
		grantType:  GrantTypeTokenExchange,
		acceptJSON: true,
		logAttrs:   []any{"resource", resource},
		spanAttrs:  []attribute.KeyValue{attribute.String(instrumentation.AttrResource, resource)},
	}, req, &resp, func(span trace.Span) {
		instrumentation.SetSpanAttributes(span,
			attribute.String(instrumentation.AttrTokenType, resp.TokenType),
			attribute.String(instrumentation.AttrIssuedTokenType, resp.IssuedTokenType),
			attribute.Float64(instrumentation.AttrExpiresIn, resp.ExpiresIn),
		)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// IntrospectToken asks the authorization server about the state of token (RFC 7662).
//
// Errors follow the same rules as ExchangeToken. An inactive token is not an error;
// check IntrospectResponse.Active.
func (c *Client) IntrospectToken(ctx context.Context, token string) (*IntrospectResponse, error) {
	var resp IntrospectResponse
	// Unlike the token endpoint, introspection requests carry no Accept header.
	err := c.post(ctx, call{
		operation: OperationIntrospectToken,
		path:      IntrospectEndpointPath,
		logAttrs:  []any{"token_prefix", util.TokenPrefix(token)},
	}, introspectRequest{Token: token}, &resp, func(span trace.Span) {
		instrumentation.SetSpanAttributes(span, attribute.Bool(instrumentation.AttrTokenActive, resp.Active))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BasicAuth returns base64(clientID + ":" + clientSecret) for the current credential values
func (c *Client) BasicAuth() string {
	return basicAuth(c.clientID(), c.clientSecret())
}

func basicAuth(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}

// call describes a single POST to the authorization server
type call struct {
	operation  string
	path       string
	grantType  string
	acceptJSON bool
	logAttrs   []any
	spanAttrs  []attribute.KeyValue
}

// post sends body as JSON to the endpoint described by cl and decodes a successful
// response into out. onSuccess runs after decoding, before the span ends.
func (c *Client) post(ctx context.Context, cl call, body, out any, onSuccess func(trace.Span)) error {
	ctx, span := c.tracer.Start(ctx, "authclient."+cl.operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	metrics := c.instrumentation.Metrics()
	clientID := c.clientID()
	instrumentation.AddClientAttributes(span, clientID, cl.grantType)
	instrumentation.SetSpanAttributes(span, cl.spanAttrs...)

	logger := c.logger.With("operation", cl.operation, "endpoint", cl.path)

	payload, err := json.Marshal(body)
	if err != nil {
		instrumentation.RecordError(span, err)
		return fmt.Errorf("failed to encode %s request: %w", cl.operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+cl.path, bytes.NewReader(payload))
	if err != nil {
		instrumentation.RecordError(span, err)
		return fmt.Errorf("failed to create %s request: %w", cl.operation, err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(clientID, c.clientSecret()))
	req.Header.Set("Content-Type", "application/json")
	if cl.acceptJSON {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	durationMs := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordRequest(ctx, cl.operation, 0, durationMs)
		metrics.RecordError(ctx, cl.operation, instrumentation.ErrorTypeTransport)
		instrumentation.RecordError(span, err)
		logger.Debug("Authorization server request failed", append(cl.logAttrs, "error", err)...)
		return fmt.Errorf("failed to send %s request: %w", cl.operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordRequest(ctx, cl.operation, resp.StatusCode, durationMs)
	instrumentation.AddHTTPAttributes(span, http.MethodPost, cl.path, resp.StatusCode)

	if !util.IsSuccessStatus(resp.StatusCode) {
		metrics.RecordError(ctx, cl.operation, instrumentation.ErrorTypeForStatus(resp.StatusCode))

		httpErr, err := HTTPErrorFromResponse(resp)
		if err != nil {
			instrumentation.RecordError(span, err)
			logger.Warn("Authorization server returned unreadable error response",
				append(cl.logAttrs, "status", resp.StatusCode, "error", err)...)
			return err
		}

		code, _, _ := httpErr.OAuthError()
		instrumentation.AddOAuthErrorAttributes(span, code)
		instrumentation.RecordError(span, httpErr)
		logger.Warn("Authorization server rejected request",
			append(cl.logAttrs, "status", resp.StatusCode, "oauth_error", code)...)
		return httpErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordError(ctx, cl.operation, instrumentation.ErrorTypeTransport)
		instrumentation.RecordError(span, err)
		return fmt.Errorf("failed to read %s response: %w", cl.operation, err)
	}
	// The whole body must be a single JSON document; trailing data is an error.
	if err := json.Unmarshal(data, out); err != nil {
		metrics.RecordError(ctx, cl.operation, instrumentation.ErrorTypeDecode)
		instrumentation.RecordError(span, err)
		return fmt.Errorf("failed to decode %s response: %w", cl.operation, err)
	}

	if onSuccess != nil {
		onSuccess(span)
	}
	instrumentation.SetSpanSuccess(span)
	logger.Debug("Authorization server request succeeded",
		append(cl.logAttrs, "status", resp.StatusCode, "duration_ms", durationMs)...)

	return nil
}
