package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-cached-records/internal/cacheinfra"
)

// mockBackend is an in-memory Backend that can be told to fail.
type mockBackend struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	err     error
	delay   time.Duration
	deletes []string
}

func newMockBackend() *mockBackend {
	return &mockBackend{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockBackend) wait(ctx context.Context) error {
	if m.delay == 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := m.wait(ctx); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

func (m *mockBackend) Close() error { return nil }

type item struct {
	ID   int64  `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

func newTestStore(backend Backend, opts ...StoreOption) (*Store, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewStore(backend, append([]StoreOption{WithLogger(logger)}, opts...)...), &buf
}

func TestStore_RoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSON, MsgPack} {
		t.Run(codec.Name(), func(t *testing.T) {
			ctx := context.Background()
			backend := newMockBackend()
			store, _ := newTestStore(backend, WithCodec(codec))

			want := []item{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Grace"}}
			Set(ctx, store, "k", want, time.Minute)

			if backend.ttls["k"] != time.Minute {
				t.Errorf("expected ttl to reach backend, got %v", backend.ttls["k"])
			}

			got, ok := Get[[]item](ctx, store, "k")
			if !ok {
				t.Fatal("expected hit")
			}
			if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
				t.Errorf("unexpected value %+v", got)
			}
		})
	}
}

func TestStore_Miss(t *testing.T) {
	store, logs := newTestStore(newMockBackend())

	got, ok := Get[[]item](context.Background(), store, "absent")
	if ok || got != nil {
		t.Errorf("expected miss, got %v %v", got, ok)
	}
	if logs.Len() != 0 {
		t.Errorf("a plain miss should not log, got %q", logs.String())
	}
}

func TestStore_FaultsReadAsMiss(t *testing.T) {
	ctx := context.Background()
	backend := newMockBackend()
	backend.err = errors.New("connection refused")
	store, logs := newTestStore(backend)

	if _, ok := Get[[]item](ctx, store, "k"); ok {
		t.Error("expected backend failure to read as miss")
	}
	Set(ctx, store, "k", []item{{ID: 1}}, time.Minute)
	store.Remove(ctx, "k")

	out := logs.String()
	for _, op := range []string{"op=get", "op=set", "op=remove"} {
		if !strings.Contains(out, op) {
			t.Errorf("expected fault log for %s, got %q", op, out)
		}
	}
	if !strings.Contains(out, "cache fault ignored") || !strings.Contains(out, "connection refused") {
		t.Errorf("expected fault message with cause, got %q", out)
	}
}

func TestStore_DecodeFailureDropsEntry(t *testing.T) {
	ctx := context.Background()
	backend := newMockBackend()
	backend.data["k"] = []byte("{not json")
	store, logs := newTestStore(backend)

	if _, ok := Get[[]item](ctx, store, "k"); ok {
		t.Fatal("expected undecodable entry to read as miss")
	}
	if _, present := backend.data["k"]; present {
		t.Error("expected undecodable entry to be removed")
	}
	if !strings.Contains(logs.String(), "op=decode") {
		t.Errorf("expected decode fault to be logged, got %q", logs.String())
	}
}

func TestStore_EncodeFailureSkipsWrite(t *testing.T) {
	backend := newMockBackend()
	store, logs := newTestStore(backend)

	Set(context.Background(), store, "k", make(chan int), time.Minute)

	if len(backend.data) != 0 {
		t.Error("expected nothing to be written")
	}
	if !strings.Contains(logs.String(), "op=encode") {
		t.Errorf("expected encode fault to be logged, got %q", logs.String())
	}
}

func TestStore_OperationTimeout(t *testing.T) {
	backend := newMockBackend()
	backend.delay = time.Second
	store, logs := newTestStore(backend, WithOperationTimeout(10*time.Millisecond))

	start := time.Now()
	if _, ok := Get[[]item](context.Background(), store, "k"); ok {
		t.Error("expected timeout to read as miss")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("expected call to be bounded by the timeout, took %v", elapsed)
	}
	if !strings.Contains(logs.String(), "deadline exceeded") {
		t.Errorf("expected timeout to be logged, got %q", logs.String())
	}
}

// pingBackend adds a connection check to mockBackend.
type pingBackend struct {
	*mockBackend
	pingErr error
	pings   int
}

func (p *pingBackend) Ping(ctx context.Context) error {
	p.pings++
	return p.pingErr
}

func TestStore_Reachable(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		want    bool
		logged  bool
	}{
		{name: "no connection", backend: newMockBackend(), want: true},
		{name: "reachable", backend: &pingBackend{mockBackend: newMockBackend()}, want: true},
		{name: "unreachable", backend: &pingBackend{mockBackend: newMockBackend(), pingErr: errors.New("dial tcp: connection refused")}, want: false, logged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, logs := newTestStore(tt.backend)

			if got := store.Reachable(context.Background()); got != tt.want {
				t.Errorf("Reachable() = %v, want %v", got, tt.want)
			}
			if got := strings.Contains(logs.String(), "op=ping"); got != tt.logged {
				t.Errorf("ping fault logged = %v, want %v; logs: %s", got, tt.logged, logs.String())
			}
			if pb, ok := tt.backend.(*pingBackend); ok && pb.pings != 1 {
				t.Errorf("expected one ping, got %d", pb.pings)
			}
		})
	}
}

func TestStore_NilBackendAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(nil)

	Set(ctx, store, "k", []item{{ID: 1}}, time.Minute)
	if _, ok := Get[[]item](ctx, store, "k"); ok {
		t.Error("expected store without backend to miss")
	}
	if err := store.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestStore_WithSturdycBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := cacheinfra.NewSturdycBackend(cacheinfra.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store, _ := newTestStore(backend, WithCodec(MsgPack))

	Set(ctx, store, "employees", []item{{ID: 7, Name: "Linus"}}, DefaultTTL)
	got, ok := Get[[]item](ctx, store, "employees")
	if !ok || len(got) != 1 || got[0].Name != "Linus" {
		t.Fatalf("unexpected result %v %v", got, ok)
	}

	store.Remove(ctx, "employees")
	if _, ok := Get[[]item](ctx, store, "employees"); ok {
		t.Error("expected miss after remove")
	}
}
