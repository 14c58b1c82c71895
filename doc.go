// Package authclient is a minimal client for an OAuth authorization server's
// token exchange (RFC 8693) and token introspection (RFC 7662) endpoints.
//
//	client, err := authclient.New(authclient.Config{
//		BaseURL:      authclient.Static("https://auth.example.com"),
//		ClientID:     authclient.Static("my-service"),
//		ClientSecret: func() string { return os.Getenv("CLIENT_SECRET") },
//	})
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.ExchangeToken(ctx, "https://api.example.com", subjectToken)
//	if httpErr, ok := authclient.AsHTTPError(err); ok {
//		// the server answered with a non-2xx status
//	}
//
// Base URL and client credentials are resolved on every request. Each call makes
// exactly one HTTP request; caching, retries and token refresh are left to the caller.
package authclient
