package statsd

import (
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"
)

func TestSanitizePrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  metrics.app  ": "metrics.app",
		"..foo..":         "foo",
		".":               "",
		"":                "",
	}

	for input, want := range tests {
		if got := sanitizePrefix(input); got != want {
			t.Fatalf("sanitizePrefix(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" backend/request ": "backend_request",
		"foo..bar":          "foo.bar",
		"multi  space":      "multi__space",
		"slash/name/id":     "slash_name_id",
	}

	for input, want := range tests {
		if got := normalizeMetricName(input); got != want {
			t.Fatalf("normalizeMetricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env":     "prod",
		"service": "ecoworth-web",
	}
	local := map[string]string{
		//nolint:gocritic // whitespace is part of the test case
		" result ": " success ",
		"":         "ignored",
		"env":      "stage",
		"endpoint": "/users/save-listing/{id}",
		"detail":   "a,b|c#d e",
	}

	got := formatTags(global, local)
	want := "|#detail:a_b_c_d_e,endpoint:/users/save-listing/{id},env:prod,result:success,service:ecoworth-web"

	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatTagsEmpty(t *testing.T) {
	t.Parallel()

	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty string", got)
	}
}

func TestCloneTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	original := map[string]string{
		"env": "prod",
		"":    "ignored",
	}

	cloned := cloneTags(original)
	if cloned == nil {
		t.Fatal("cloneTags returned nil map")
	}

	cloned["env"] = "stage"
	if original["env"] != "prod" {
		t.Fatal("cloneTags did not copy values")
	}

	if _, ok := cloned[""]; ok {
		t.Fatal("cloneTags kept empty key")
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{conn: clientConn}

	if !client.Enabled() {
		t.Fatal("expected client.Enabled to report true with active connection")
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client.Enabled to report false after Close")
	}

	// Verify Close can be called again without error.
	if err := client.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{
		Enabled: true,
		Address: "   ",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{
		Enabled: true,
		Address: "bad address",
	})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientWritesPrefixedLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Service: "ecoworth-web",
		Env:     "dev",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	client.Count("backend.request", 1, map[string]string{"env": "prod", "result": "success"})

	buf := make([]byte, 512)
	if err := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := "ecoworth.backend.request:1|c|#env:dev,result:success,service:ecoworth-web"
	if got := string(buf[:n]); got != want {
		t.Fatalf("line mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestClientCountsDroppedWrites(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	peerConn.Close()

	client := &Client{prefix: DefaultPrefix, conn: clientConn, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	client.Count("listing.action", 1, nil)
	client.Timing("backend.duration", time.Millisecond, nil)

	if got := client.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestMemorySinkTotals(t *testing.T) {
	t.Parallel()

	sink := NewMemorySink()
	sink.Count("backend.request", 1, map[string]string{"result": "success"})
	sink.Count("backend.request", 2, map[string]string{"result": "error"})
	sink.Count("guard.decision", 1, nil)

	if got := sink.Total("backend.request", nil); got != 3 {
		t.Fatalf("Total(all) = %d, want 3", got)
	}
	if got := sink.Total("backend.request", map[string]string{"result": "error"}); got != 2 {
		t.Fatalf("Total(error) = %d, want 2", got)
	}
	if got := len(sink.Counts()); got != 3 {
		t.Fatalf("len(Counts) = %d, want 3", got)
	}
}
