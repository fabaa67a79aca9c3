package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func TestWatcherInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.csv")
	require.NoError(t, os.WriteFile(path, []byte("title\n"), 0o644))

	target := &recordingInvalidator{}
	w, err := NewWatcher(path, target, zap.NewNop())
	require.NoError(t, err)
	events := w.Events()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("title\nnew\n"), 0o644))

	select {
	case ev := <-events:
		assert.Equal(t, path, filepath.Clean(ev.Name))
	case <-time.After(5 * time.Second):
		t.Fatal("no invalidation after write")
	}

	target.mu.Lock()
	defer target.mu.Unlock()
	require.NotEmpty(t, target.paths)
	for _, p := range target.paths {
		assert.Equal(t, path, p, "other files are ignored")
	}
}

func TestWatcherStartFailureDoesNotBlockClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "metadata.csv")
	w, err := NewWatcher(path, &recordingInvalidator{}, nil)
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked after a failed Start")
	}
}
