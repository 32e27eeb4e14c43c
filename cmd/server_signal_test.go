//go:build unix

package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerWriter は書き込まれた内容に marker が現れたら seen を閉じる
type markerWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	marker string
	seen   chan struct{}
	once   sync.Once
}

func newMarkerWriter(marker string) *markerWriter {
	return &markerWriter{marker: marker, seen: make(chan struct{})}
}

func (w *markerWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buf.Write(p)
	if strings.Contains(w.buf.String(), w.marker) {
		w.once.Do(func() { close(w.seen) })
	}
	return n, err
}

func (w *markerWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// TestRunStopsOnInterruptRightAfterListen はリッスン直後の Ctrl+C でも正常終了することを確認する
func TestRunStopsOnInterruptRightAfterListen(t *testing.T) {
	clearEnv(t)

	out := newMarkerWriter("Server running at")
	cmd := NewCmdServe(out, &bytes.Buffer{})
	cmd.SetArgs([]string{"--host", "127.0.0.1", "--port", "0", "--root", t.TempDir(), "--no-browser"})

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.ExecuteContext(context.Background())
	}()

	select {
	case <-out.seen:
	case <-time.After(3 * time.Second):
		t.Fatal("起動メッセージが表示されませんでした")
	}

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("シグナルでコマンドが終了しませんでした")
	}

	assert.Contains(t, out.String(), "Server stopped by user")
}
