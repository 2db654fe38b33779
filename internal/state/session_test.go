package state

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capacity/internal/domain"
	"capacity/internal/services"
)

const waitFor = 2 * time.Second

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

type sessionFixture struct {
	session *Session
	scanner *services.MockScanner
	logs    *syncBuffer
	rootA   string
	rootB   string
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	base := t.TempDir()
	rootA := filepath.Join(base, "a")
	rootB := filepath.Join(base, "b")
	scanner := &services.MockScanner{
		Entries: map[string][]domain.ChildEntry{
			rootA: {
				{Path: filepath.Join(rootA, "f"), SizeBytes: 4096},
				{Path: filepath.Join(rootA, "b"), SizeBytes: 8192, IsDirectory: true},
				{Path: filepath.Join(rootA, "zero"), SizeBytes: 0},
			},
			rootB: {
				{Path: filepath.Join(rootB, "g"), SizeBytes: 100},
			},
		},
		Volume: &domain.VolumeUsage{UsedBytes: 700, TotalBytes: 1000},
		Gates:  map[string]chan struct{}{},
	}
	logs := &syncBuffer{}
	logger := zerolog.New(logs).Level(zerolog.DebugLevel)
	session := NewSession(scanner, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-session.Done()
	})

	return &sessionFixture{session: session, scanner: scanner, logs: logs, rootA: rootA, rootB: rootB}
}

func (f *sessionFixture) waitStatus(t *testing.T, root string, status domain.ScanStatus) Snapshot {
	t.Helper()
	var snapshot Snapshot
	require.Eventually(t, func() bool {
		snapshot = f.session.Snapshot()
		return snapshot.Root == root && snapshot.Status == status
	}, waitFor, 5*time.Millisecond)
	return snapshot
}

func TestSessionStartsIdle(t *testing.T) {
	f := newSessionFixture(t)
	snapshot := f.session.Snapshot()
	assert.Equal(t, domain.StatusIdle, snapshot.Status)
	assert.Empty(t, snapshot.Root)
	assert.False(t, snapshot.CanGoBack())
}

func TestSessionScanCompletes(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Scan(f.rootA, domain.HistoryReset)

	snapshot := f.waitStatus(t, f.rootA, domain.StatusComplete)
	require.Len(t, snapshot.Entries, 2)
	assert.Equal(t, filepath.Join(f.rootA, "b"), snapshot.Entries[0].Path)
	assert.Equal(t, filepath.Join(f.rootA, "f"), snapshot.Entries[1].Path)
	assert.EqualValues(t, 12288, snapshot.SelectionTotal())
	require.NotNil(t, snapshot.Volume)
	assert.EqualValues(t, 700, snapshot.Volume.UsedBytes)
	assert.EqualValues(t, 0, snapshot.Unaccounted())
}

func TestSessionEmptyRoot(t *testing.T) {
	f := newSessionFixture(t)
	missing := filepath.Join(filepath.Dir(f.rootA), "missing")
	f.session.Scan(missing, domain.HistoryReset)

	snapshot := f.waitStatus(t, missing, domain.StatusEmpty)
	assert.Empty(t, snapshot.Entries)
	assert.Equal(t, "Nothing to show here.", snapshot.StatusText())
}

func TestSessionNoVolumeStats(t *testing.T) {
	f := newSessionFixture(t)
	f.scanner.Volume = nil
	f.session.Scan(f.rootB, domain.HistoryReset)

	snapshot := f.waitStatus(t, f.rootB, domain.StatusComplete)
	assert.Nil(t, snapshot.Volume)
	assert.Zero(t, snapshot.Unaccounted())
}

func TestSessionDrillDownAndBack(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Scan(f.rootA, domain.HistoryReset)
	f.waitStatus(t, f.rootA, domain.StatusComplete)

	f.session.Scan(f.rootB, domain.HistoryAppend)
	snapshot := f.waitStatus(t, f.rootB, domain.StatusComplete)
	assert.Equal(t, []string{f.rootA}, snapshot.History)
	assert.True(t, snapshot.CanGoBack())

	f.session.GoBack()
	snapshot = f.waitStatus(t, f.rootA, domain.StatusComplete)
	assert.Empty(t, snapshot.History)
	assert.False(t, snapshot.CanGoBack())
}

func TestSessionGoBackOnEmptyHistoryIsNoop(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Scan(f.rootA, domain.HistoryReset)
	before := f.waitStatus(t, f.rootA, domain.StatusComplete)

	f.session.GoBack()

	assert.Equal(t, before, f.session.Snapshot())
}

func TestSessionRefreshPreservesHistory(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Refresh()
	assert.Equal(t, domain.StatusIdle, f.session.Snapshot().Status)

	f.session.Scan(f.rootA, domain.HistoryReset)
	f.waitStatus(t, f.rootA, domain.StatusComplete)
	f.session.Scan(f.rootB, domain.HistoryAppend)
	first := f.waitStatus(t, f.rootB, domain.StatusComplete)

	f.session.Refresh()
	require.Eventually(t, func() bool {
		snapshot := f.session.Snapshot()
		return snapshot.Generation > first.Generation && snapshot.Status == domain.StatusComplete
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{f.rootA}, f.session.Snapshot().History)
}

func TestSessionNewTopLevelScanClearsHistory(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Scan(f.rootA, domain.HistoryReset)
	f.session.Scan(f.rootB, domain.HistoryAppend)
	f.waitStatus(t, f.rootB, domain.StatusComplete)

	f.session.Scan(f.rootA, domain.HistoryReset)
	snapshot := f.waitStatus(t, f.rootA, domain.StatusComplete)
	assert.Empty(t, snapshot.History)
}

func TestSessionCancel(t *testing.T) {
	f := newSessionFixture(t)
	gate := make(chan struct{})
	f.scanner.Gates[f.rootA] = gate
	defer close(gate)

	f.session.Scan(f.rootA, domain.HistoryReset)
	assert.True(t, f.session.Snapshot().Scanning())

	f.session.Cancel()
	snapshot := f.session.Snapshot()
	assert.Equal(t, domain.StatusCancelled, snapshot.Status)
	assert.Empty(t, snapshot.Entries)
	assert.Nil(t, snapshot.Volume)

	f.session.Cancel()
	assert.Equal(t, snapshot, f.session.Snapshot())
}

func TestSessionCancelWhenIdleIsNoop(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Cancel()
	assert.Equal(t, domain.StatusIdle, f.session.Snapshot().Status)
}

func TestSessionStaleResultNeverOverwrites(t *testing.T) {
	f := newSessionFixture(t)
	gate := make(chan struct{})
	f.scanner.Gates[f.rootA] = gate
	f.scanner.IgnoreCancel = true

	f.session.Scan(f.rootA, domain.HistoryReset)
	f.session.Scan(f.rootB, domain.HistoryReset)
	current := f.waitStatus(t, f.rootB, domain.StatusComplete)

	close(gate)
	require.Eventually(t, func() bool {
		return strings.Contains(f.logs.String(), "Discarding stale scan result")
	}, waitFor, 5*time.Millisecond)

	assert.Equal(t, current, f.session.Snapshot())
}

func TestSessionChangedSignals(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Scan(f.rootB, domain.HistoryReset)

	select {
	case <-f.session.Changed():
	case <-time.After(waitFor):
		t.Fatal("no change notification")
	}
}

func TestSessionAfterStopReturnsFinalSnapshot(t *testing.T) {
	scanner := &services.MockScanner{Entries: map[string][]domain.ChildEntry{}}
	session := NewSession(scanner, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx)

	cancel()
	<-session.Done()

	session.Scan("/anywhere", domain.HistoryReset)
	assert.Equal(t, domain.StatusIdle, session.Snapshot().Status)
}

func TestSessionDoneWaitsForScanGoroutines(t *testing.T) {
	root := t.TempDir()
	gate := make(chan struct{})
	scanner := &services.MockScanner{
		Entries:      map[string][]domain.ChildEntry{root: {{Path: filepath.Join(root, "f"), SizeBytes: 10}}},
		Gates:        map[string]chan struct{}{root: gate},
		IgnoreCancel: true,
	}
	session := NewSession(scanner, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx)

	session.Scan(root, domain.HistoryReset)
	cancel()

	select {
	case <-session.Done():
		t.Fatal("stopped while a scan goroutine was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	select {
	case <-session.Done():
	case <-time.After(waitFor):
		t.Fatal("session never stopped")
	}
	assert.Equal(t, root, session.Snapshot().Root)
	assert.Equal(t, domain.StatusScanning, session.Snapshot().Status)
}
