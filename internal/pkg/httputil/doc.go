// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers write every response through these helpers so JSON formatting,
// the error envelope and error logging stay the same across endpoints.
package httputil
