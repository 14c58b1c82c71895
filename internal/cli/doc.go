// Package cli implements the authclient command line tool.
//
// The commands wrap authclient.Client: exchange performs a token exchange,
// introspect performs token introspection, and basic-auth prints the HTTP Basic
// credential. Settings come from flags, AUTHCLIENT_* environment variables and
// an optional YAML file, in that order of precedence.
package cli
