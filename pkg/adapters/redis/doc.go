// Package redis provides a Redis-backed log store built on go-redis.
package redis
