package api

import "time"

// Default targets for the companion services.
const (
	DefaultTagURL      = "http://localhost:5001"
	DefaultHardwareURL = "http://localhost:5000"
)

// NewDefaultClient builds a client pointed at the default service URLs.
func NewDefaultClient(timeout ...time.Duration) *Client {
	return NewClient(DefaultTagURL, DefaultHardwareURL, timeout...)
}
