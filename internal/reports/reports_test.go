package reports

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource records bundle requests. When block is set, Bundle waits on it.
type fakeSource struct {
	mu      sync.Mutex
	calls   [][]string
	data    []byte
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeSource) Bundle(ctx context.Context, reports []string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reports)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.data, f.err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func makeZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte("output of " + n))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestKinds(t *testing.T) {
	infos := Kinds()
	require.Len(t, infos, 4)
	assert.Equal(t, []Kind{KindFastfetch, KindStui, KindSpeedtest, KindLog},
		[]Kind{infos[0].Kind, infos[1].Kind, infos[2].Kind, infos[3].Kind})

	assert.Equal(t, "📝 System Update Log", KindLog.Label())
	assert.Equal(t, "bogus", Kind("bogus").Label())
	assert.False(t, Kind("bogus").Valid())
}

func TestParseKinds(t *testing.T) {
	got, err := ParseKinds(" log, fastfetch,log,, ")
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindLog, KindFastfetch}, got)

	_, err = ParseKinds("log,uptime")
	assert.Error(t, err)
}

func TestSelection_ToggleIsItsOwnInverse(t *testing.T) {
	for _, info := range Kinds() {
		t.Run(string(info.Kind), func(t *testing.T) {
			sel := NewSelection(KindStui)
			before := sel.Kinds()

			sel.Toggle(info.Kind)
			sel.Toggle(info.Kind)

			assert.ElementsMatch(t, before, sel.Kinds())
		})
	}
}

func TestSelection_OrderAndSetSemantics(t *testing.T) {
	var sel Selection
	assert.True(t, sel.Empty())

	sel.Toggle(KindLog)
	sel.Toggle(KindFastfetch)
	sel.Toggle(KindSpeedtest)
	assert.Equal(t, []string{"log", "fastfetch", "speedtest"}, sel.Names())

	sel.Toggle(KindFastfetch)
	assert.Equal(t, []string{"log", "speedtest"}, sel.Names())
	assert.True(t, sel.Has(KindLog))
	assert.False(t, sel.Has(KindFastfetch))
	assert.Equal(t, 2, sel.Len())

	dup := NewSelection(KindLog, KindLog, KindStui)
	assert.Equal(t, []string{"log", "stui"}, dup.Names())

	sel.Clear()
	assert.True(t, sel.Empty())
}

func TestSelection_KindsIsACopy(t *testing.T) {
	sel := NewSelection(KindLog, KindStui)
	kinds := sel.Kinds()
	kinds[0] = KindFastfetch
	assert.Equal(t, []string{"log", "stui"}, sel.Names())
}

func TestBundler_EmptySelectionIssuesNoRequest(t *testing.T) {
	src := &fakeSource{}
	saver := &export.MemorySaver{}
	b := NewBundler(src, saver, nil)

	assert.False(t, b.CanDownload(Selection{}))
	_, err := b.Download(context.Background(), Selection{})
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Zero(t, src.callCount())
	assert.Empty(t, saver.Saved())
}

func TestBundler_Download(t *testing.T) {
	archive := makeZip(t, "fastfetch_2025-06-01T10-00-00.txt", "log_2025-06-01T10-00-00.txt")
	src := &fakeSource{data: archive}
	saver := &export.MemorySaver{}
	b := NewBundler(src, saver, nil)

	sel := NewSelection(KindFastfetch, KindLog)
	res, err := b.Download(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"fastfetch", "log"}}, src.calls)
	require.Len(t, saver.Saved(), 1)
	assert.Equal(t, BundleFileName, saver.Saved()[0].Name)
	assert.Equal(t, archive, saver.Saved()[0].Data)

	assert.Equal(t, BundleFileName, res.Path)
	assert.Equal(t, len(archive), res.Size)
	assert.Equal(t, []string{"fastfetch_2025-06-01T10-00-00.txt", "log_2025-06-01T10-00-00.txt"}, res.Members)
	assert.False(t, b.InFlight())
}

func TestBundler_NonZipBodyStillSaved(t *testing.T) {
	src := &fakeSource{data: []byte("not a zip")}
	saver := &export.MemorySaver{}
	b := NewBundler(src, saver, nil)

	res, err := b.Download(context.Background(), NewSelection(KindLog))
	require.NoError(t, err)
	assert.Nil(t, res.Members)
	assert.Len(t, saver.Saved(), 1)
}

func TestBundler_FailureResetsInFlight(t *testing.T) {
	src := &fakeSource{err: stderrors.New("connection reset")}
	saver := &export.MemorySaver{}
	b := NewBundler(src, saver, nil)

	_, err := b.Download(context.Background(), NewSelection(KindStui))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBundle))
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, b.InFlight(), "in-flight flag must be cleared after a failure")
	assert.Empty(t, saver.Saved())

	src.err = nil
	src.data = makeZip(t, "stui.txt")
	_, err = b.Download(context.Background(), NewSelection(KindStui))
	assert.NoError(t, err, "a failed bundle must not block the next one")
}

func TestBundler_SaveFailure(t *testing.T) {
	src := &fakeSource{data: makeZip(t, "log.txt")}
	b := NewBundler(src, &export.MemorySaver{Err: stderrors.New("read-only fs")}, nil)

	_, err := b.Download(context.Background(), NewSelection(KindLog))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only fs")
	assert.False(t, b.InFlight())
}

func TestBundler_SecondDownloadWhileInFlight(t *testing.T) {
	src := &fakeSource{
		data:    makeZip(t, "log.txt"),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	b := NewBundler(src, &export.MemorySaver{}, nil)
	sel := NewSelection(KindLog)

	done := make(chan error, 1)
	go func() {
		_, err := b.Download(context.Background(), sel)
		done <- err
	}()

	<-src.entered
	assert.True(t, b.InFlight())
	assert.False(t, b.CanDownload(sel))

	_, err := b.Download(context.Background(), sel)
	assert.ErrorIs(t, err, ErrInFlight)

	close(src.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, src.callCount())
	assert.False(t, b.InFlight())
}
