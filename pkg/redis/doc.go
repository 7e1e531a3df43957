// Package redis relays state machine changes to Redis pub/sub.
//
// Connect dials and pings the server with retries, Healthcheck plugs the
// connection into a readiness check, and Relay publishes one JSON Message
// per Change:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	changes, unsubscribe := engine.Subscribe(ctx)
//	defer unsubscribe()
//	go redis.NewRelay(client, cfg.Channel, engine.Name(), log).Run(ctx, changes)
//
// Subscribers see changes in the order the engine made them, but may miss
// some: the engine's change feed drops values for slow readers and Redis
// pub/sub does not buffer for absent ones.
package redis
