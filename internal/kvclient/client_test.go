package kvclient

import (
	"errors"
	"net"
	"testing"

	"github.com/yndnr/kvs/internal/kvserver"
	"github.com/yndnr/kvs/internal/pool"
	"github.com/yndnr/kvs/internal/storage"
)

// memStore is a minimal in-memory storage.Handle for exercising the
// client/server round trip without touching disk.
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: make(map[string]string)} }

func (m *memStore) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Remove(key string) error {
	if _, ok := m.data[key]; !ok {
		return storage.ErrKeyNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

var _ storage.Handle = (*memStore)(nil)

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	p := pool.NewNaive()
	srv, err := kvserver.New(kvserver.Config{
		Addr:  ln.Addr().String(),
		Store: newMemStore(),
		Pool:  p,
	})
	if err != nil {
		t.Fatalf("kvserver.New() error = %v", err)
	}

	go srv.Serve(ln)

	return ln.Addr().String(), func() {
		srv.Close()
		p.Close()
	}
}

func TestClient_SetGetRemove(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	c, err := Connect(addr)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	if err := c.Set("name", "ferris"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := c.Get("name")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "ferris" {
		t.Fatalf("Get() = (%q, %v), want (\"ferris\", true)", value, found)
	}

	if err := c.Remove("name"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	_, found, err = c.Get("name")
	if err != nil {
		t.Fatalf("Get() after remove error = %v", err)
	}
	if found {
		t.Fatal("key should be gone after Remove()")
	}
}

func TestClient_GetMissing(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	c, err := Connect(addr)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	_, found, err := c.Get("absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Fatal("expected key not found")
	}
}

func TestClient_RemoveMissing(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	c, err := Connect(addr)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	err = c.Remove("absent")
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Remove() error = %v, want ErrKeyNotFound", err)
	}
}

func TestClient_MultipleRequestsReuseConnection(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	c, err := Connect(addr)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	for i := 0; i < 5; i++ {
		if err := c.Set("counter", "v"); err != nil {
			t.Fatalf("iteration %d: Set() error = %v", i, err)
		}
	}
}
