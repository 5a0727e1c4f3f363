package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetOrSet returns the cached value for key, or calls fn to compute and
// store it on a miss. Concurrent misses for the same key on the same cache
// share a single fn call.
//
// If fn returns an error, nothing is cached and the error is returned.
func GetOrSet[V any](ctx context.Context, c *Cache[V], key string, fn func(ctx context.Context) (V, error), opts ...SetOption) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, val, opts...)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	val, _ := v.(V)
	return val, nil
}

// Memoize wraps fn so that results are cached in c under keyFn(arg).
// Errors are returned and not cached. A nil keyFn derives keys with Key.
//
// Example:
//
//	lookup := cache.Memoize(c, repo.ProductByID, func(id int64) string {
//	    return cache.Key("product", id)
//	}, cache.WithTags("products"))
//	p, err := lookup(ctx, 42)
func Memoize[A, V any](c *Cache[V], fn func(context.Context, A) (V, error), keyFn func(A) string, opts ...SetOption) func(context.Context, A) (V, error) {
	if keyFn == nil {
		keyFn = func(a A) string { return Key("", a) }
	}

	return func(ctx context.Context, a A) (V, error) {
		return GetOrSet(ctx, c, keyFn(a), func(ctx context.Context) (V, error) {
			return fn(ctx, a)
		}, opts...)
	}
}

// Key builds a cache key from the JSON encoding of args, prefixed with
// namespace and a colon when namespace is set. Argument order matters.
// Arguments that cannot be JSON-encoded fall back to their %v form.
func Key(namespace string, args ...any) string {
	if args == nil {
		args = []any{}
	}

	var body string
	if b, err := json.Marshal(args); err == nil {
		body = string(b)
	} else {
		body = fmt.Sprintf("%v", args)
	}

	if namespace == "" {
		return body
	}
	return namespace + ":" + body
}
