package util

// IsSuccessStatus reports whether an HTTP status code is in the 2xx range
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}
