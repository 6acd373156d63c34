package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "state.json"), 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func TestFileGetMissingKey(t *testing.T) {
	f := newTestFile(t)

	value, err := f.Get("absent")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestFileSetGetDelete(t *testing.T) {
	f := newTestFile(t)

	require.NoError(t, f.Set("cart", []byte(`[{"id":"prod-1"}]`)))
	value, err := f.Get("cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"prod-1"}]`, string(value))

	require.NoError(t, f.Delete("cart"))
	value, err = f.Get("cart")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFile(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, first.Set("user", []byte(`{"id":"user-1"}`)))
	first.Close()

	second, err := NewFile(path, time.Hour)
	require.NoError(t, err)
	defer second.Close()

	value, err := second.Get("user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"user-1"}`, string(value))
}

// L'écrivain n'est jamais rappelé pour ses propres écritures ; un autre
// process (second handle sur le même fichier) l'est, via le polling.
func TestFileWatchExternalWritesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	writer, err := NewFile(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer writer.Close()

	reader, err := NewFile(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer reader.Close()

	writerNotified := make(chan struct{}, 8)
	readerNotified := make(chan struct{}, 8)
	writer.Watch("cart", func() { writerNotified <- struct{}{} })
	reader.Watch("cart", func() { readerNotified <- struct{}{} })

	require.NoError(t, writer.Set("cart", []byte(`[1]`)))

	select {
	case <-readerNotified:
	case <-time.After(2 * time.Second):
		t.Fatal("l'observateur externe n'a pas été prévenu")
	}

	select {
	case <-writerNotified:
		t.Fatal("l'écrivain a été rappelé pour sa propre écriture")
	case <-time.After(100 * time.Millisecond):
	}

	value, err := reader.Get("cart")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(value))
}

func TestFileWatchStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	writer, err := NewFile(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer writer.Close()

	reader, err := NewFile(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer reader.Close()

	notified := make(chan struct{}, 8)
	stop := reader.Watch("cart", func() { notified <- struct{}{} })
	stop()

	require.NoError(t, writer.Set("cart", []byte(`[1]`)))

	select {
	case <-notified:
		t.Fatal("observateur prévenu après désabonnement")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryIsolatesWriterFromOwnWrites(t *testing.T) {
	backing := NewMemory()
	a := backing.Open()
	b := backing.Open()

	aNotified := 0
	bNotified := 0
	a.Watch("k", func() { aNotified++ })
	b.Watch("k", func() { bNotified++ })

	require.NoError(t, a.Set("k", []byte("v")))

	assert.Equal(t, 0, aNotified)
	assert.Equal(t, 1, bNotified)

	value, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}
