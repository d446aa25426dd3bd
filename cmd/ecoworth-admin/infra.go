package main

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ecoworth/marketplace-web/internal/bootstrap"
)

var errMemorySessions = errors.New("sessions live in the server's process memory (AUTH_SESSION_STORE=memory); nothing to inspect")

// connectRedis opens the Redis the web server keeps its sessions and catalog cache in.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func (cmdCtx *commandContext) connectRedis() (redis.UniversalClient, error) {
	if !cmdCtx.Config.UsesRedisSessions() {
		return nil, errMemorySessions
	}
	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, bootstrap.RedisOptions{
		Config: cmdCtx.Config.Redis,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func (cmdCtx *commandContext) closeRedis(client redis.UniversalClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		cmdCtx.Logger.Warn("redis close failed", "error", err)
	}
}
