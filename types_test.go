package authclient

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestTokenExchangeResponse_Decode(t *testing.T) {
	body := `{"access_token":"abc","issued_token_type":"urn:x","token_type":"Bearer","expires_in":3600}`

	var resp TokenExchangeResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := TokenExchangeResponse{
		AccessToken:     "abc",
		IssuedTokenType: "urn:x",
		TokenType:       "Bearer",
		ExpiresIn:       3600,
	}
	if resp != want {
		t.Errorf("decoded %+v, want %+v", resp, want)
	}
}

func TestTokenExchangeResponse_Token(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	resp := &TokenExchangeResponse{
		AccessToken:     "abc",
		IssuedTokenType: "urn:ietf:params:oauth:token-type:access_token",
		TokenType:       "Bearer",
		ExpiresIn:       3600,
	}
	token := resp.Token(now)

	if token.AccessToken != "abc" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "abc")
	}
	if token.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want %q", token.TokenType, "Bearer")
	}
	if want := now.Add(time.Hour); !token.Expiry.Equal(want) {
		t.Errorf("Expiry = %v, want %v", token.Expiry, want)
	}
	if got := token.Extra("issued_token_type"); got != resp.IssuedTokenType {
		t.Errorf("Extra(issued_token_type) = %v, want %q", got, resp.IssuedTokenType)
	}
}

func TestTokenExchangeResponse_Token_NoExpiry(t *testing.T) {
	token := (&TokenExchangeResponse{AccessToken: "abc", ExpiresIn: 0}).Token(time.Now())
	if !token.Expiry.IsZero() {
		t.Errorf("Expiry = %v, want zero for expires_in=0", token.Expiry)
	}
}

func TestIntrospectResponse_DecodeInactive(t *testing.T) {
	var resp IntrospectResponse
	if err := json.Unmarshal([]byte(`{"active":false}`), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(resp, IntrospectResponse{}) {
		t.Errorf("decoded %+v, want zero value with Active=false", resp)
	}
	if !resp.ExpiresAt().IsZero() || !resp.IssuedAt().IsZero() || !resp.NotBefore().IsZero() {
		t.Error("absent time claims must map to the zero time")
	}
}

func TestIntrospectResponse_DecodeActive(t *testing.T) {
	body := `{
		"active": true,
		"token_type": "Bearer",
		"sub": "user-1",
		"iat": 1700000000,
		"exp": 1700003600,
		"nbf": 1700000000,
		"aud": "https://api.example.com",
		"iss": "https://auth.example.com",
		"jti": "id-1",
		"client_id": "resource-server"
	}`

	var resp IntrospectResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !resp.Active {
		t.Error("Active = false, want true")
	}
	if resp.Sub != "user-1" || resp.ClientID != "resource-server" || resp.Jti != "id-1" {
		t.Errorf("unexpected string claims: %+v", resp)
	}
	if !reflect.DeepEqual(resp.Aud, Audience{"https://api.example.com"}) || resp.Iss != "https://auth.example.com" {
		t.Errorf("unexpected aud/iss: %+v", resp)
	}
	if got := resp.ExpiresAt(); !got.Equal(time.Unix(1700003600, 0)) {
		t.Errorf("ExpiresAt() = %v", got)
	}
	if got := resp.IssuedAt(); !got.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("IssuedAt() = %v", got)
	}
	if got := resp.NotBefore(); !got.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("NotBefore() = %v", got)
	}
}

func TestTokenExchangeResponse_DecodeUnvalidated(t *testing.T) {
	tests := []struct {
		name string
		body string
		want TokenExchangeResponse
	}{
		{
			name: "float expires_in",
			body: `{"access_token":"abc","expires_in":3600.0}`,
			want: TokenExchangeResponse{AccessToken: "abc", ExpiresIn: 3600},
		},
		{
			name: "fractional expires_in",
			body: `{"access_token":"abc","expires_in":1.5}`,
			want: TokenExchangeResponse{AccessToken: "abc", ExpiresIn: 1.5},
		},
		{
			name: "expires_in as string is ignored",
			body: `{"access_token":"abc","expires_in":"3600"}`,
			want: TokenExchangeResponse{AccessToken: "abc"},
		},
		{
			name: "access_token with wrong type is ignored",
			body: `{"access_token":42,"token_type":"Bearer"}`,
			want: TokenExchangeResponse{TokenType: "Bearer"},
		},
		{
			name: "unknown members are ignored",
			body: `{"access_token":"abc","refresh_token":"r","scope":"a b"}`,
			want: TokenExchangeResponse{AccessToken: "abc"},
		},
		{
			name: "array body",
			body: `[1,2,3]`,
			want: TokenExchangeResponse{},
		},
		{
			name: "null body",
			body: `null`,
			want: TokenExchangeResponse{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TokenExchangeResponse
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTokenExchangeResponse_DecodeInvalidJSON(t *testing.T) {
	for _, body := range []string{``, `not json`, `{"access_token":"abc"} trailing`} {
		var resp TokenExchangeResponse
		if err := json.Unmarshal([]byte(body), &resp); err == nil {
			t.Errorf("Unmarshal(%q) expected error", body)
		}
	}
}

func TestTokenExchangeResponse_Token_FractionalExpiry(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token := (&TokenExchangeResponse{AccessToken: "abc", ExpiresIn: 1.5}).Token(now)

	if want := now.Add(1500 * time.Millisecond); !token.Expiry.Equal(want) {
		t.Errorf("Expiry = %v, want %v", token.Expiry, want)
	}
	if token.ExpiresIn != 1 {
		t.Errorf("ExpiresIn = %d, want 1", token.ExpiresIn)
	}
}

func TestIntrospectResponse_DecodeUnvalidated(t *testing.T) {
	tests := []struct {
		name string
		body string
		want IntrospectResponse
	}{
		{
			name: "audience array",
			body: `{"active":true,"aud":["api1","api2"]}`,
			want: IntrospectResponse{Active: true, Aud: Audience{"api1", "api2"}},
		},
		{
			name: "audience array with non-string element",
			body: `{"active":true,"aud":["api1",7]}`,
			want: IntrospectResponse{Active: true, Aud: Audience{"api1"}},
		},
		{
			name: "fractional time claims",
			body: `{"active":true,"exp":1700000000.5,"iat":1699996400.25,"nbf":1699996400.0}`,
			want: IntrospectResponse{Active: true, Exp: 1700000000.5, Iat: 1699996400.25, Nbf: 1699996400},
		},
		{
			name: "active as string is ignored",
			body: `{"active":"true","sub":"user-1"}`,
			want: IntrospectResponse{Sub: "user-1"},
		},
		{
			name: "claims with wrong types are ignored",
			body: `{"active":true,"sub":5,"exp":"soon","aud":{"x":1},"client_id":null}`,
			want: IntrospectResponse{Active: true},
		},
		{
			name: "string body",
			body: `"inactive"`,
			want: IntrospectResponse{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got IntrospectResponse
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIntrospectResponse_FractionalExpiresAt(t *testing.T) {
	resp := IntrospectResponse{Exp: 1700000000.5}
	if want := time.Unix(1700000000, 500_000_000); !resp.ExpiresAt().Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", resp.ExpiresAt(), want)
	}
}

func TestAudience(t *testing.T) {
	tests := []struct {
		name     string
		aud      Audience
		wantJSON string
	}{
		{"single value encodes as string", Audience{"api"}, `"api"`},
		{"several values encode as array", Audience{"api1", "api2"}, `["api1","api2"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.aud)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.wantJSON {
				t.Errorf("encoded %s, want %s", data, tt.wantJSON)
			}

			var decoded Audience
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.aud) {
				t.Errorf("decoded %v, want %v", decoded, tt.aud)
			}
		})
	}

	aud := Audience{"api1", "api2"}
	if !aud.Contains("api2") || aud.Contains("api3") {
		t.Errorf("Contains() mismatch for %v", aud)
	}
}

func TestIntrospectResponse_EncodingOmitsAbsentClaims(t *testing.T) {
	data, err := json.Marshal(IntrospectResponse{Active: true, Exp: 1700000000, Aud: Audience{"api"}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"active":true,"exp":1700000000,"aud":"api"}`; string(data) != want {
		t.Errorf("encoded %s, want %s", data, want)
	}
}

func TestTokenExchangeRequest_Encoding(t *testing.T) {
	data, err := json.Marshal(tokenExchangeRequest{
		GrantType:          GrantTypeTokenExchange,
		Resource:           "https://api.example.com",
		RequestedTokenType: TokenTypeAccessToken,
		SubjectToken:       "subject",
		SubjectTokenType:   TokenTypeAccessToken,
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"grant_type":"token_exchange","resource":"https://api.example.com","requested_token_type":"access_token","subject_token":"subject","subject_token_type":"access_token"}`
	if string(data) != want {
		t.Errorf("encoded %s, want %s", data, want)
	}
}

func TestIntrospectRequest_Encoding(t *testing.T) {
	data, err := json.Marshal(introspectRequest{Token: "tok"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"token":"tok"}` {
		t.Errorf("encoded %s, want %s", data, `{"token":"tok"}`)
	}
}
