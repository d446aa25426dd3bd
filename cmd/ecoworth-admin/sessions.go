package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/ecoworth/marketplace-web/internal/adapters/redis"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
)

type sessionFilter struct {
	ID    string
	Email string
	Role  string
}

func (f sessionFilter) empty() bool {
	return f.ID == "" && f.Email == "" && f.Role == ""
}

func (f sessionFilter) match(id string, sess domainauth.Session) bool {
	if f.ID != "" && f.ID != id {
		return false
	}
	if f.Email != "" && !strings.EqualFold(f.Email, sess.Email) {
		return false
	}
	if f.Role != "" && !sess.Role.Is(domainauth.Role(f.Role)) {
		return false
	}
	return true
}

func (f sessionFilter) String() string {
	var parts []string
	if f.ID != "" {
		parts = append(parts, "id="+f.ID)
	}
	if f.Email != "" {
		parts = append(parts, "email="+f.Email)
	}
	if f.Role != "" {
		parts = append(parts, "role="+f.Role)
	}
	if len(parts) == 0 {
		return "all sessions"
	}
	return strings.Join(parts, " ")
}

type listSessionsOptions struct {
	Filter sessionFilter
	Limit  int
}

type revokeSessionsOptions struct {
	Filter sessionFilter
	All    bool
	DryRun bool
	Yes    bool
}

func parseFilterFlags(fs *flag.FlagSet, f *sessionFilter) {
	fs.StringVar(&f.ID, "id", "", "Session ID")
	fs.StringVar(&f.Email, "email", "", "Session email (case-insensitive)")
	fs.StringVar(&f.Role, "role", "", "Session role (buyer, seller, admin)")
}

func normalizeFilter(f *sessionFilter) error {
	f.ID = strings.TrimSpace(f.ID)
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.TrimSpace(f.Role)
	if f.Role != "" && !domainauth.Role(f.Role).Valid() {
		return fmt.Errorf("unknown role %q", f.Role)
	}
	return nil
}

func parseListSessionsFlags(args []string, out io.Writer) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts listSessionsOptions
	parseFilterFlags(fs, &opts.Filter)
	fs.IntVar(&opts.Limit, "limit", 100, "Maximum sessions to print (0 for no limit)")

	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}
	if opts.Limit < 0 {
		return listSessionsOptions{}, errors.New("--limit must be >= 0")
	}
	if err := normalizeFilter(&opts.Filter); err != nil {
		return listSessionsOptions{}, err
	}
	return opts, nil
}

func parseRevokeSessionsFlags(args []string, out io.Writer) (revokeSessionsOptions, error) {
	fs := flag.NewFlagSet("revoke-sessions", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts revokeSessionsOptions
	parseFilterFlags(fs, &opts.Filter)
	fs.BoolVar(&opts.All, "all", false, "Revoke every session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print matching sessions without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return revokeSessionsOptions{}, err
	}
	if err := normalizeFilter(&opts.Filter); err != nil {
		return revokeSessionsOptions{}, err
	}
	switch {
	case opts.All && !opts.Filter.empty():
		return revokeSessionsOptions{}, errors.New("--all cannot be combined with --id, --email or --role")
	case !opts.All && opts.Filter.empty():
		return revokeSessionsOptions{}, errors.New("one of --id, --email, --role or --all is required")
	}
	return opts, nil
}

// storedSession is one session record as found in Redis.
type storedSession struct {
	ID       string
	Session  domainauth.Session
	TTL      time.Duration
	Readable bool
}

// scanSessions walks every key under prefix. Records that fail to decode are reported as unreadable.
func scanSessions(ctx context.Context, client redis.UniversalClient, prefix string, fn func(storedSession) error) error {
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		entry := storedSession{ID: strings.TrimPrefix(key, prefix)}

		raw, err := client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis get %s: %w", key, err)
		}
		entry.Readable = json.Unmarshal(raw, &entry.Session) == nil

		ttl, err := client.TTL(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("redis ttl %s: %w", key, err)
		}
		entry.TTL = ttl

		if err := fn(entry); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

func renderTTL(d time.Duration) string {
	switch {
	case d == -1:
		return "no expiry"
	case d == -2:
		return "key missing"
	default:
		return d.Round(time.Second).String()
	}
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args, cmdCtx.Out)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := cmdCtx.connectRedis()
	if err != nil {
		return err
	}
	defer cmdCtx.closeRedis(client)

	w := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	if headerErr := writeln(w, "ID\tRole\tEmail\tName\tExpires\tTTL"); headerErr != nil {
		return fmt.Errorf("write sessions header: %w", headerErr)
	}

	total, shown := 0, 0
	scanErr := scanSessions(ctx, client, cmdCtx.Config.Auth.SessionKeyPrefix, func(s storedSession) error {
		if s.Readable && !opts.Filter.match(s.ID, s.Session) {
			return nil
		}
		if !s.Readable && !opts.Filter.empty() {
			return nil
		}
		total++
		if opts.Limit > 0 && shown >= opts.Limit {
			return nil
		}
		shown++
		if !s.Readable {
			return writef(w, "%s\t(unreadable)\t\t\t\t%s\n", s.ID, renderTTL(s.TTL))
		}
		return writef(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			domainauth.NormalizeRole(s.Session.Role),
			s.Session.Email,
			s.Session.Name,
			s.Session.ExpiresAt.UTC().Format(time.RFC3339),
			renderTTL(s.TTL),
		)
	})
	if scanErr != nil {
		return scanErr
	}
	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush sessions table: %w", flushErr)
	}

	if shown < total {
		return writef(cmdCtx.Out, "\nShowing %d of %d sessions\n", shown, total)
	}
	return writef(cmdCtx.Out, "\nTotal sessions: %d\n", total)
}

func runRevokeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseRevokeSessionsFlags(args, cmdCtx.Out)
	if err != nil {
		return err
	}
	if confirmErr := cmdCtx.confirmAction(confirmOptions{
		DryRun: opts.DryRun,
		Yes:    opts.Yes,
		Target: opts.Filter.String(),
	}, "revoke sessions"); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := cmdCtx.connectRedis()
	if err != nil {
		return err
	}
	defer cmdCtx.closeRedis(client)

	prefix := cmdCtx.Config.Auth.SessionKeyPrefix
	store := redisadapter.NewSessionStore(client, redisadapter.WithPrefix(prefix))

	var ids []string
	if opts.Filter.ID != "" && opts.Filter.Email == "" && opts.Filter.Role == "" {
		n, existsErr := client.Exists(ctx, prefix+opts.Filter.ID).Result()
		if existsErr != nil {
			return fmt.Errorf("redis exists: %w", existsErr)
		}
		if n > 0 {
			ids = []string{opts.Filter.ID}
		}
	} else {
		scanErr := scanSessions(ctx, client, prefix, func(s storedSession) error {
			if opts.All || (s.Readable && opts.Filter.match(s.ID, s.Session)) {
				ids = append(ids, s.ID)
			}
			return nil
		})
		if scanErr != nil {
			return scanErr
		}
	}

	if opts.DryRun {
		for _, id := range ids {
			if err := writef(cmdCtx.Out, "would revoke %s\n", id); err != nil {
				return err
			}
		}
		return writef(cmdCtx.Out, "Dry run: %d session(s) match\n", len(ids))
	}

	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			return fmt.Errorf("revoke session %s: %w", id, err)
		}
	}
	cmdCtx.Logger.InfoContext(ctx, "sessions revoked", "count", len(ids), "filter", opts.Filter.String())
	return writef(cmdCtx.Out, "Revoked %d session(s)\n", len(ids))
}
