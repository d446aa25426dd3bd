// Package statsd ships the front end's metrics to a StatsD agent over UDP using the
// DogStatsD line format (name:value|type|#tag:value,...).
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPrefix namespaces every metric when no prefix is configured.
const DefaultPrefix = "ecoworth"

// Sink describes the minimal interface required to emit StatsD-style metrics.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Config describes how to reach the StatsD agent.
type Config struct {
	Enabled bool
	Address string
	// Prefix namespaces metric names. Empty means DefaultPrefix.
	Prefix string
	// Service and Env are attached to every metric as the service and env tags.
	Service string
	Env     string
	// GlobalTags are attached to every metric; Service and Env win on conflict.
	// Per-metric tags cannot override the service or env tag.
	GlobalTags map[string]string
	Logger     *slog.Logger
}

// Client emits metrics over UDP. Writes never block a request on the agent: a failed
// write is counted in Dropped and otherwise ignored. It is safe for concurrent use.
type Client struct {
	prefix     string
	globalTags map[string]string
	logger     *slog.Logger

	mu   sync.Mutex
	conn net.Conn

	dropped atomic.Int64
}

var _ Sink = (*Client)(nil)

// NewClient dials the agent. A disabled config or an empty address yields a client that
// discards everything.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		prefix:     sanitizePrefix(cfg.Prefix),
		globalTags: globalTags(cfg),
		logger:     logger.With("component", "statsd"),
	}
	if client.prefix == "" {
		client.prefix = DefaultPrefix
	}

	address := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || address == "" {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", address, err)
	}
	client.conn = conn
	return client, nil
}

func globalTags(cfg Config) map[string]string {
	tags := cloneTags(cfg.GlobalTags)
	if s := strings.TrimSpace(cfg.Service); s != "" {
		tags["service"] = tagValueReplacer.Replace(s)
	}
	if e := strings.TrimSpace(cfg.Env); e != "" {
		tags["env"] = tagValueReplacer.Replace(e)
	}
	return tags
}

// Enabled reports whether the client has a live connection.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Dropped reports how many metric lines failed to send.
func (c *Client) Dropped() int64 {
	if c == nil {
		return 0
	}
	return c.dropped.Load()
}

// Count increments a counter metric.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10)+"|c", tags)
}

// Gauge records the current value for a gauge metric.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.send(name, formatFloat(value)+"|g", tags)
}

// Timing records a duration in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, formatFloat(ms)+"|ms", tags)
}

// Close releases the UDP connection. Later writes are discarded.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, payload string, tags map[string]string) {
	if c == nil {
		return
	}
	line, ok := c.line(name, payload, tags)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}

	if _, err := c.conn.Write([]byte(line)); err != nil {
		// Warn once; later failures log at debug.
		if c.dropped.Add(1) == 1 {
			c.logger.Warn("statsd write failed, dropping metrics", "error", err)
			return
		}
		c.logger.Debug("statsd write failed", "error", err)
	}
}

func (c *Client) line(name, payload string, tags map[string]string) (string, bool) {
	metric := normalizeMetricName(name)
	if metric == "" {
		return "", false
	}
	return c.prefix + "." + metric + ":" + payload + formatTags(c.globalTags, tags), true
}

func sanitizePrefix(prefix string) string {
	return strings.Trim(normalizeMetricName(prefix), ".")
}

// metricNameReplacer maps characters that are separators in the line format.
var metricNameReplacer = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "@", "_", "#", "_")

func normalizeMetricName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	n = metricNameReplacer.Replace(n)
	for strings.Contains(n, "..") {
		n = strings.ReplaceAll(n, "..", ".")
	}
	return strings.Trim(n, ".")
}

// tagValueReplacer maps characters that would split a tag list; colons are legal in values.
var tagValueReplacer = strings.NewReplacer(",", "_", "|", "_", "#", "_", " ", "_")

func formatTags(global, local map[string]string) string {
	merged := make(map[string]string, len(global)+len(local))
	for k, v := range global {
		merged[k] = v
	}
	for k, v := range cloneTags(local) {
		if _, fixed := global[k]; fixed && (k == "service" || k == "env") {
			continue
		}
		merged[k] = v
	}
	if len(merged) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ":" + merged[k]
	}
	return "|#" + strings.Join(pairs, ",")
}

// cloneTags copies tags with keys and values made safe for the line format.
// Entries with an empty key are dropped.
func cloneTags(tags map[string]string) map[string]string {
	cp := make(map[string]string, len(tags))
	for k, v := range tags {
		key := normalizeTagKey(k)
		if key == "" {
			continue
		}
		cp[key] = tagValueReplacer.Replace(strings.TrimSpace(v))
	}
	return cp
}

func normalizeTagKey(k string) string {
	return strings.ReplaceAll(tagValueReplacer.Replace(strings.TrimSpace(k)), ":", "_")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
