// SPDX-License-Identifier: MIT
package transport

import (
	"sync/atomic"

	applog "micfeatures/internal/log"
)

// LoggingTransport writes every sent value to the debug log.
type LoggingTransport struct {
	sent atomic.Uint64
}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: Using LoggingTransport (visible at debug level)")
	return &LoggingTransport{}
}

// Send logs data at debug level. It never fails.
func (lt *LoggingTransport) Send(data any) error {
	n := lt.sent.Add(1)
	applog.Debugf("Transport: #%d %+v", n, data)
	return nil
}

// Sent returns how many values have been sent.
func (lt *LoggingTransport) Sent() uint64 {
	return lt.sent.Load()
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	applog.Debugf("Transport: LoggingTransport closed after %d messages", lt.Sent())
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
