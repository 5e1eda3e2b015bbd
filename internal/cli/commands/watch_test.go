package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noodle-lang/noodlec/internal/cli/output"
	"github.com/noodle-lang/noodlec/internal/testutil"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestWatcher(t *testing.T, root string, out, errOut *syncBuffer) *watcher {
	t.Helper()
	cfg := testConfig(t)
	cfg.NoCache = true
	cfg.Watch.Debounce = 20 * time.Millisecond

	c := &CommandContext{
		Cfg:      cfg,
		Logger:   testutil.NewTestLogger(t),
		Renderer: output.NewRenderer(out, errOut, output.ModeText, false),
	}
	w, err := newWatcher(c, root, true)
	require.NoError(t, err)
	return w
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), &syncBuffer{}, &syncBuffer{})
	defer w.fs.Close()

	w.schedule("b.nd")
	w.schedule("a.nd")
	w.schedule("./b.nd")

	select {
	case <-w.trigger:
	case <-time.After(2 * time.Second):
		t.Fatal("debounce timer never fired")
	}
	assert.Equal(t, []string{"a.nd", "b.nd"}, w.drain())
	assert.Empty(t, w.drain())

	select {
	case <-w.trigger:
		t.Fatal("expected a single trigger")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_RecompilesOnChange(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "start.nd", "let a = 1;")

	var out, errOut syncBuffer
	w := newTestWatcher(t, dir, &out, &errOut)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("Watching"))
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "start.nd: ok")

	changed := filepath.Join(dir, "changed.nd")
	require.NoError(t, os.WriteFile(changed, []byte("let b = ;"), 0o644))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(errOut.String()), []byte("changed.nd: "))
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(changed, []byte("let b = 2;"), 0o644))
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("changed.nd: ok"))
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	_, err := os.Stat(artifactPath(w.c.Cfg.OutDir, changed))
	assert.NoError(t, err, "emit should write the artifact")
}
