package authclient

import (
	"encoding/json"
	"math"
	"time"

	"golang.org/x/oauth2"
)

// Grant and token type identifiers sent to the authorization server
const (
	// GrantTypeTokenExchange is the grant_type value for token exchange requests
	GrantTypeTokenExchange = "token_exchange"

	// TokenTypeAccessToken is used for both requested_token_type and subject_token_type
	TokenTypeAccessToken = "access_token" //nolint:gosec // token type identifier, not a credential
)

// Endpoint paths relative to the authorization server base URL
const (
	TokenEndpointPath      = "/token"
	IntrospectEndpointPath = "/introspect"
)

// TokenExchangeResponse represents the token endpoint response for an RFC 8693 token exchange.
// The body is not validated: members that are absent or carry an unexpected JSON type
// decode to their zero value.
type TokenExchangeResponse struct {
	// AccessToken is the newly issued token
	AccessToken string `json:"access_token"`

	// IssuedTokenType identifies the type of the issued token
	IssuedTokenType string `json:"issued_token_type"`

	// TokenType is the token type as defined in RFC 6749 (e.g., "Bearer")
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime of the issued token in seconds. Any JSON number is accepted.
	ExpiresIn float64 `json:"expires_in"`
}

// UnmarshalJSON decodes any syntactically valid JSON without checking its shape
func (r *TokenExchangeResponse) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	*r = TokenExchangeResponse{
		AccessToken:     stringMember(obj, "access_token"),
		IssuedTokenType: stringMember(obj, "issued_token_type"),
		TokenType:       stringMember(obj, "token_type"),
		ExpiresIn:       numberMember(obj, "expires_in"),
	}
	return nil
}

// Token converts the exchange result into an oauth2.Token so it can be used with
// oauth2.StaticTokenSource or oauth2.NewClient. The expiry is computed relative to now;
// a non-positive ExpiresIn yields a token without expiry.
func (r *TokenExchangeResponse) Token(now time.Time) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
		ExpiresIn:   int64(r.ExpiresIn),
	}
	if r.ExpiresIn > 0 {
		token.Expiry = now.Add(time.Duration(r.ExpiresIn * float64(time.Second)))
	}
	return token.WithExtra(map[string]interface{}{
		"issued_token_type": r.IssuedTokenType,
	})
}

// IntrospectResponse represents an RFC 7662 token introspection response.
// Only Active is guaranteed; the server may omit every other claim, in particular
// for inactive tokens. As with TokenExchangeResponse, claims of an unexpected
// type decode to their zero value instead of failing.
type IntrospectResponse struct {
	// Active indicates whether the token is currently active
	Active bool `json:"active"`

	TokenType string   `json:"token_type,omitempty"`
	Sub       string   `json:"sub,omitempty"`
	Iat       float64  `json:"iat,omitempty"`
	Exp       float64  `json:"exp,omitempty"`
	Aud       Audience `json:"aud,omitempty"`
	Iss       string   `json:"iss,omitempty"`
	Jti       string   `json:"jti,omitempty"`
	Nbf       float64  `json:"nbf,omitempty"`
	ClientID  string   `json:"client_id,omitempty"`
}

// UnmarshalJSON decodes any syntactically valid JSON without checking its shape
func (r *IntrospectResponse) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	active, _ := obj["active"].(bool)
	*r = IntrospectResponse{
		Active:    active,
		TokenType: stringMember(obj, "token_type"),
		Sub:       stringMember(obj, "sub"),
		Iat:       numberMember(obj, "iat"),
		Exp:       numberMember(obj, "exp"),
		Aud:       audienceFrom(obj["aud"]),
		Iss:       stringMember(obj, "iss"),
		Jti:       stringMember(obj, "jti"),
		Nbf:       numberMember(obj, "nbf"),
		ClientID:  stringMember(obj, "client_id"),
	}
	return nil
}

// ExpiresAt returns the exp claim as a time, or the zero time if absent
func (r *IntrospectResponse) ExpiresAt() time.Time {
	return unixOrZero(r.Exp)
}

// IssuedAt returns the iat claim as a time, or the zero time if absent
func (r *IntrospectResponse) IssuedAt() time.Time {
	return unixOrZero(r.Iat)
}

// NotBefore returns the nbf claim as a time, or the zero time if absent
func (r *IntrospectResponse) NotBefore() time.Time {
	return unixOrZero(r.Nbf)
}

func unixOrZero(sec float64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9)))
}

// Audience is the aud claim. Servers send either a single string or an array
// of strings (RFC 7519 Section 4.1.3); both decode into Audience.
type Audience []string

// Contains reports whether aud is one of the audience values
func (a Audience) Contains(aud string) bool {
	for _, v := range a {
		if v == aud {
			return true
		}
	}
	return false
}

// MarshalJSON encodes a single audience as a string and several as an array
func (a Audience) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// UnmarshalJSON accepts a string or an array; non-string array elements are skipped
func (a *Audience) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = audienceFrom(v)
	return nil
}

func audienceFrom(v any) Audience {
	switch aud := v.(type) {
	case string:
		return Audience{aud}
	case []any:
		out := make(Audience, 0, len(aud))
		for _, e := range aud {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// decodeObject parses data as JSON. A valid document that is not an object
// yields a nil map, so every member reads as absent.
func decodeObject(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	obj, _ := v.(map[string]any)
	return obj, nil
}

func stringMember(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func numberMember(obj map[string]any, key string) float64 {
	n, _ := obj[key].(float64)
	return n
}

// tokenExchangeRequest is the JSON body posted to the token endpoint
type tokenExchangeRequest struct {
	GrantType          string `json:"grant_type"`
	Resource           string `json:"resource"`
	RequestedTokenType string `json:"requested_token_type"`
	SubjectToken       string `json:"subject_token"`
	SubjectTokenType   string `json:"subject_token_type"`
}

// introspectRequest is the JSON body posted to the introspection endpoint
type introspectRequest struct {
	Token string `json:"token"`
}
