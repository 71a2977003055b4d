package workers

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// syncBuffer is written to by the logger and by process output pipes.
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

func buildScriptWorker(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("builds the script-worker binary")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	bin := filepath.Join(t.TempDir(), "script-worker")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	cmd := exec.Command(goBin, "build", "-o", bin, "github.com/peteski22/dynparam/cmd/script-worker")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return bin
}

func TestManagerWorkerLifecycle(t *testing.T) {
	bin := buildScriptWorker(t)

	var logs syncBuffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Level: hclog.Debug, Output: &logs})

	m := NewManager(logger, WithStartTimeout(30*time.Second), WithCallTimeout(5*time.Second))
	ctx := context.Background()

	w, err := m.Start(ctx, bin)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.StopAll(context.Background()) })

	require.Equal(t, bin, w.Path())
	require.Len(t, m.Workers(), 1)

	m.mu.Lock()
	rw := m.workers[w.ID()]
	m.mu.Unlock()
	require.NotNil(t, rw)
	if rw.network == "unix" {
		_, err := os.Stat(rw.address)
		require.NoError(t, err)
	}

	got, err := NewEvaluator(m, m.CallTimeout()).
		Evaluate(ctx, pkg.NewSpec("BUILD", `[1, 1000000, nil]`, "", "", true))
	require.NoError(t, err)
	require.Equal(t, []any{"1", "1000000", nil}, got)

	require.NoError(t, m.StopAll(ctx))
	require.Empty(t, m.Workers())
	require.NotContains(t, logs.String(), "force killing")
	require.True(t, rw.cmd.ProcessState.Exited())
	require.True(t, rw.cmd.ProcessState.Success())

	if rw.network == "unix" {
		_, err := os.Stat(rw.address)
		require.True(t, os.IsNotExist(err), "socket file should be removed")
	}

	_, err = m.Next()
	require.ErrorIs(t, err, ErrNoWorkers)
}
