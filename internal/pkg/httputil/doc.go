// Package httputil provides the JSON response and request helpers shared by
// API handlers, so every endpoint writes the same error envelope and logs
// failures the same way.
package httputil
