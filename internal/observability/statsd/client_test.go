package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"banksim", "backend.call", "banksim.backend.call"},
		{"", " api/call ", "api_call"},
		{"p", "foo..bar", "p.foo.bar"},
		{"p", "  ", ""},
		{"p", ".", "p"},
	}

	for _, tt := range tests {
		if got := metricName(tt.prefix, tt.name); got != tt.want {
			t.Fatalf("metricName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestRenderTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " ui "}
	local := map[string]string{"result": " success ", "": "ignored", "env": "stage"}

	got := renderTags(global, local)
	want := "|#env:stage,result:success,service:ui"
	if got != want {
		t.Fatalf("renderTags mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := renderTags(nil, nil); got != "" {
		t.Fatalf("renderTags(nil, nil) = %q, want empty", got)
	}
}

func TestClientWritesLines(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     ".banksim.",
		GlobalTags: map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if !client.Enabled() {
		t.Fatal("expected enabled client")
	}

	client.Count("backend.call", 1, map[string]string{"op": "whoami"})

	buf := make([]byte, 512)
	_ = pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got, want := string(buf[:n]), "banksim.backend.call:1|c|#env:test,op:whoami"; got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestClientDisabledAndClose(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
	client.Gauge("visitors.active", 3, nil)
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	nilClient.Timing("x", time.Second, nil)
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	r.Count("a", 2, map[string]string{"k": "v"})
	r.Timing("b", 1500*time.Millisecond, nil)

	if got := r.Named("a"); len(got) != 1 || got[0].Value != 2 || got[0].Tags["k"] != "v" {
		t.Fatalf("unexpected samples for a: %+v", got)
	}
	if got := r.Named("b"); len(got) != 1 || got[0].Value != 1500 || got[0].Kind != "ms" {
		t.Fatalf("unexpected samples for b: %+v", got)
	}
	if len(r.Samples()) != 2 {
		t.Fatalf("expected 2 samples")
	}
}
