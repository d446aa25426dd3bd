package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/ecoworth/marketplace-web/internal/adapters/backend"
	redisadapter "github.com/ecoworth/marketplace-web/internal/adapters/redis"
)

func (cmdCtx *commandContext) backendClient() (*backend.Client, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL:   cmdCtx.Config.Backend.BaseURL,
		Timeout:   cmdCtx.Config.Backend.Timeout,
		UserAgent: cmdCtx.Config.Backend.UserAgent + " (admin)",
		Logger:    cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return client, nil
}

func runFlushCatalogCache(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("flush-catalog-cache", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.Out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	rdb, err := cmdCtx.connectRedis()
	if err != nil {
		return err
	}
	defer cmdCtx.closeRedis(rdb)

	api, err := cmdCtx.backendClient()
	if err != nil {
		return err
	}
	cache, err := redisadapter.NewCatalogCache(redisadapter.CatalogCacheOptions{
		Client: rdb,
		Next:   api,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	existed, err := rdb.Exists(ctx, redisadapter.DefaultCatalogKey).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	if existed == 0 {
		return writeln(cmdCtx.Out, "Catalog cache was already empty")
	}
	return writeln(cmdCtx.Out, "Catalog cache flushed")
}

type checkResult struct {
	Component string
	OK        bool
	Detail    string
}

func runCheck(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(cmdCtx.Out)
	timeout := fs.Duration("timeout", 10*time.Second, "Per-check timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	results := []checkResult{cmdCtx.checkRedis(*timeout), cmdCtx.checkBackend(*timeout)}

	w := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Component\tStatus\tDetail"); err != nil {
		return fmt.Errorf("write check header: %w", err)
	}
	failed := 0
	for _, r := range results {
		status := "ok"
		if !r.OK {
			status = "FAIL"
			failed++
		}
		if err := writef(w, "%s\t%s\t%s\n", r.Component, status, r.Detail); err != nil {
			return fmt.Errorf("write check row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush check table: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

func (cmdCtx *commandContext) checkRedis(timeout time.Duration) checkResult {
	res := checkResult{Component: "redis"}
	rdb, err := cmdCtx.connectRedis()
	if errors.Is(err, errMemorySessions) {
		res.OK, res.Detail = true, "skipped (in-memory sessions)"
		return res
	}
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	defer cmdCtx.closeRedis(rdb)

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, timeout)
	defer cancel()
	start := time.Now()
	if err := rdb.Ping(ctx).Err(); err != nil {
		res.Detail = err.Error()
		return res
	}
	res.OK, res.Detail = true, "ping "+time.Since(start).Round(time.Millisecond).String()
	return res
}

func (cmdCtx *commandContext) checkBackend(timeout time.Duration) checkResult {
	res := checkResult{Component: "backend"}
	api, err := cmdCtx.backendClient()
	if err != nil {
		res.Detail = err.Error()
		return res
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, timeout)
	defer cancel()
	start := time.Now()
	listings, err := api.List(ctx)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	res.OK = true
	res.Detail = fmt.Sprintf("%d listings in %s", len(listings), time.Since(start).Round(time.Millisecond))
	return res
}
