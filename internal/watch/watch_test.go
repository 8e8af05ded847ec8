package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyFlyby(t *testing.T) (string, string) {
	t.Helper()
	src, err := os.ReadFile("../fixture/testdata/flyby.yaml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "flyby.yaml")
	require.NoError(t, os.WriteFile(path, src, 0644))
	return path, string(src)
}

func next(t *testing.T, w *Watcher) Reload {
	t.Helper()
	select {
	case r, ok := <-w.Reloads():
		require.True(t, ok, "reloads closed")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
	return Reload{}
}

func start(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func TestReloadsAfterEdit(t *testing.T) {
	path, src := copyFlyby(t)
	w := start(t, path)

	edited := strings.Replace(src, "duration: 10", "duration: 12", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))

	r := next(t, w)
	require.NoError(t, r.Err)
	assert.Equal(t, 12.0, r.Fixture.Data.Duration)
}

func TestBurstOfWritesSettlesOnLast(t *testing.T) {
	path, src := copyFlyby(t)
	w := start(t, path)

	for _, d := range []string{"11", "12", "13"} {
		edited := strings.Replace(src, "duration: 10", "duration: "+d, 1)
		require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	}

	r := next(t, w)
	require.NoError(t, r.Err)
	assert.Equal(t, 13.0, r.Fixture.Data.Duration)
}

func TestBrokenFileReportsError(t *testing.T) {
	path, _ := copyFlyby(t)
	w := start(t, path)

	require.NoError(t, os.WriteFile(path, []byte("groups: [unclosed"), 0644))

	r := next(t, w)
	assert.Error(t, r.Err)
	assert.Nil(t, r.Fixture)
}

func TestIgnoresOtherFiles(t *testing.T) {
	path, src := copyFlyby(t)
	w := start(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1"), 0644))
	select {
	case r := <-w.Reloads():
		t.Fatalf("unexpected reload %v", r)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	assert.NoError(t, next(t, w).Err)
}

func TestScriptChangeReloads(t *testing.T) {
	path, _ := copyFlyby(t)
	scripts := filepath.Join(filepath.Dir(path), "scripts")
	require.NoError(t, os.Mkdir(scripts, 0755))

	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddScripts(scripts))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(scripts, "pass.tengo"), []byte(`log = "hi"`), 0644))
	r := next(t, w)
	require.NoError(t, r.Err)
	assert.Equal(t, "flyby", r.Fixture.Data.Name)
}
