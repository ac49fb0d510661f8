// Package observability provides structured logging and upstream call metrics
// for the Ghost gateway.
//
// Logging is zap-based; every log line written through ForRequest carries the
// request ID of the inbound call.
package observability
