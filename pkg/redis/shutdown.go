package redis

import (
	"context"
	"io"
)

// Shutdown returns a function that closes the Redis client.
// It matches the shutdown hook signature used by cmd/cachectl.
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
