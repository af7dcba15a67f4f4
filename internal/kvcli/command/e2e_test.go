package command

import (
	"bytes"
	"io"
	"net"
	"os"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvs/internal/kvserver"
	"github.com/yndnr/kvs/internal/pool"
	"github.com/yndnr/kvs/internal/storage"
)

type memStore struct{ data map[string]string }

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

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestCLI_SetThenGet(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	app := &cli.App{
		Flags:    globalFlags(),
		Commands: []*cli.Command{GetCommand(), SetCommand()},
	}

	if err := app.Run([]string{"kvs-client", "--addr", addr, "set", "greeting", "hello"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	out := captureStdout(t, func() {
		if err := app.Run([]string{"kvs-client", "--addr", addr, "get", "greeting"}); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	})

	if out != "hello\n" {
		t.Errorf("get output = %q, want %q", out, "hello\n")
	}
}

func TestCLI_GetMissing(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	app := &cli.App{
		Flags:    globalFlags(),
		Commands: []*cli.Command{GetCommand()},
	}

	out := captureStdout(t, func() {
		if err := app.Run([]string{"kvs-client", "--addr", addr, "get", "absent"}); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	})

	if out != "Key not found\n" {
		t.Errorf("get output = %q, want %q", out, "Key not found\n")
	}
}
