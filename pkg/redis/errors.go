package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: empty connection URL")
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	ErrRedisNotReady                = errors.New("redis: server did not become ready in time")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
	ErrPublishFailed                = errors.New("redis: failed to publish change")
)
