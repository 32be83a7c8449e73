// Package client contains the transport primitive used to talk to the
// notification service.
//
// # Overview
//
// Transport performs a single timeout-bounded JSON request against
// <host>/api/v1/<path>, always sending a bearer Authorization header. It
// returns the raw status code and the response body; decoding is left to
// the caller (see Response.DecodeJSON).
//
// # Error Handling
//
// Transport never synthesizes a status code. Any failure below HTTP
// (timeout, DNS, refused connection, unreadable body) is returned wrapped
// in ErrTransport. A missing host is reported as ErrNoHost before any
// network activity.
package client
