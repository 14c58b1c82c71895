// Package testutil provides testing utilities for the authclient library.
// It includes a recording mock authorization server with canned responses
// and small assertion helpers.
package testutil
