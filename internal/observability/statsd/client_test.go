package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" upstream/request ": "upstream_request",
		"foo..bar":           "foo.bar",
		"multi  space":       "multi__space",
		"":                   "",
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
		"env": "prod",
	}
	local := map[string]string{
		"outcome": " ok ",
		"":        "ignored",
		"env":     "stage",
	}

	got := formatTags(global, local)
	want := "|#env:stage,outcome:ok"

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

func TestNoopSinkIsSafe(t *testing.T) {
	t.Parallel()

	sink := Noop()
	sink.Count("upstream.request", 1, nil)
	sink.Gauge("queue.depth", 1.5, nil)
	sink.Timing("upstream.request.duration", time.Millisecond, nil)
}

func TestDisabledClientDoesNotDial(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: false, Address: "localhost:8125"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Enabled() {
		t.Fatal("disabled client reports enabled")
	}
	client.Count("upstream.request", 1, nil)
	if cerr := client.Close(); cerr != nil {
		t.Fatalf("close: %v", cerr)
	}
}

func TestClientEmitsLineProtocol(t *testing.T) {
	t.Parallel()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer conn.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: conn.LocalAddr().String(),
		Prefix:  "gateway",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	client.Count("upstream.request", 2, map[string]string{"outcome": "ok"})

	if derr := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); derr != nil {
		t.Fatalf("set deadline: %v", derr)
	}
	buf := make([]byte, 512)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	line := string(buf[:n])
	if !strings.HasPrefix(line, "gateway.upstream.request:2|c") {
		t.Fatalf("unexpected metric line: %q", line)
	}
	if !strings.Contains(line, "outcome:ok") {
		t.Fatalf("missing tag in metric line: %q", line)
	}
}
