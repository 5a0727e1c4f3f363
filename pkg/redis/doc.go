// Package redis opens go-redis clients used by the Redis snapshot store.
//
// [Open] parses the URL of a [Config], applies its pool and timeout
// settings (zero fields get defaults) and pings the server, retrying with a
// linear backoff until RetryAttempts are exhausted. Failed attempts are
// logged through the given logger.
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")}, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := storage.NewRedis(client, storage.WithRedisPrefix("cachekit:"))
//
// [Healthcheck] returns a ping closure for readiness probes and [Shutdown]
// wraps Close as a shutdown hook.
//
// Sentinel errors: [ErrEmptyConnectionURL], [ErrFailedToParseURL],
// [ErrConnectionFailed] and [ErrHealthcheckFailed]. They are combined with
// the underlying cause using [errors.Join].
package redis
