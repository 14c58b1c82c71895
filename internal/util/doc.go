// Package util provides common utility functions used across the authclient library.
//
// Key utilities:
//   - SafeTruncate: Safely truncates strings for logging sensitive data
//   - TokenPrefix: Log-safe rendering of token values
//   - IsSuccessStatus: The 2xx success range used to decide when a response becomes an error
package util
