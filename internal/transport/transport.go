// SPDX-License-Identifier: MIT

// Package transport publishes feature snapshots to consumers outside the
// process.
package transport

// Transport sends processed data to a consumer.
// Implementations must be safe for concurrent use and must not block the
// caller for long: Send runs on the analysis goroutine.
type Transport interface {
	Send(data any) error
	Close() error
}
