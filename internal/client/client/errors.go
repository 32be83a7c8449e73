package client

import "errors"

var (
	ErrTransport = errors.New("transport failure")
	ErrNoHost    = errors.New("host is not configured")
)
