package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.toml")
	require.NoError(t, os.WriteFile(path, []byte("clip = \"Idle\"\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *Rig, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(r *Rig) {
			select {
			case reloads <- r:
			default:
			}
		})
	}()

	// Rewrite until the watcher is registered, leaving it quiet long enough to reload.
	var got *Rig
	for attempt := 0; attempt < 20 && got == nil; attempt++ {
		require.NoError(t, os.WriteFile(path, []byte("clip = \"Run\"\n"), 0o644))
		select {
		case got = <-reloads:
		case <-time.After(4 * reloadDelay):
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "Run", got.Clip)

	// Broken and blank files are ignored.
	require.NoError(t, os.WriteFile(path, []byte("clip = \n"), 0o644))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	quiet := time.After(4 * reloadDelay)
	for waiting := true; waiting; {
		select {
		case r := <-reloads:
			assert.Equal(t, "Run", r.Clip)
		case <-quiet:
			waiting = false
		}
	}

	// A truncate followed by the new content within the quiet period yields the new rig.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("clip = \"Sprint\"\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	deadline := time.After(5 * time.Second)
	for sprint := false; !sprint; {
		select {
		case r := <-reloads:
			if r.Clip != "Sprint" {
				assert.Equal(t, "Run", r.Clip)
				continue
			}
			sprint = true
		case <-deadline:
			t.Fatal("no reload after rewrite")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "rig.toml"), func(*Rig) {})
	assert.Error(t, err)
}
