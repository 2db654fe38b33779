package services

import (
	"context"
	"path/filepath"
	"time"

	"capacity/internal/domain"
)

// MockScanner serves canned results. It backs the demo mode and the session
// tests, which use Gates to hold a scan open until the test releases it.
type MockScanner struct {
	Delay   time.Duration
	Entries map[string][]domain.ChildEntry
	Volume  *domain.VolumeUsage
	// Gates, keyed by root, block ListChildren until closed.
	Gates map[string]chan struct{}
	// IgnoreCancel makes a gated scan complete normally even when its
	// context was cancelled while waiting.
	IgnoreCancel bool
}

func NewMockScanner() *MockScanner {
	return &MockScanner{
		Delay:  350 * time.Millisecond,
		Volume: &domain.VolumeUsage{UsedBytes: 412 << 30, TotalBytes: 994 << 30},
	}
}

func (scanner *MockScanner) ListChildren(ctx context.Context, req ScanRequest) ScanResult {
	start := time.Now()
	root := cleanPath(req.RootPath)
	if gate, ok := scanner.Gates[root]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			if !scanner.IgnoreCancel {
				return ScanResult{RootPath: root, Cancelled: true, Duration: time.Since(start)}
			}
			<-gate
		}
	}
	if scanner.Delay > 0 {
		select {
		case <-ctx.Done():
			return ScanResult{RootPath: root, Cancelled: true, Duration: time.Since(start)}
		case <-time.After(scanner.Delay):
		}
	}

	entries, ok := scanner.Entries[root]
	if !ok && scanner.Entries == nil {
		entries = demoEntries(root)
	}
	out := make([]domain.ChildEntry, len(entries))
	copy(out, entries)
	if req.Progress != nil {
		progressNonBlocking(req.Progress, ScanProgress{Path: root, Scanned: int64(len(out)), Completed: true})
	}
	return ScanResult{
		RootPath: root,
		Entries:  out,
		Stats:    ScanStats{Files: int64(len(out))},
		Duration: time.Since(start),
	}
}

func (scanner *MockScanner) VolumeUsage(string) (domain.VolumeUsage, bool) {
	if scanner.Volume == nil {
		return domain.VolumeUsage{}, false
	}
	return *scanner.Volume, true
}

func demoEntries(root string) []domain.ChildEntry {
	names := []struct {
		name  string
		size  int64
		isDir bool
	}{
		{"Library", 96 << 30, true},
		{"Applications", 38 << 30, true},
		{"Movies", 21 << 30, true},
		{"Documents", 7 << 30, true},
		{"Downloads", 3 << 30, true},
		{"archive.zip", 900 << 20, false},
		{"notes.txt", 12 << 10, false},
	}
	entries := make([]domain.ChildEntry, 0, len(names))
	for _, item := range names {
		entries = append(entries, domain.ChildEntry{
			Path:        filepath.Join(root, item.name),
			SizeBytes:   item.size,
			IsDirectory: item.isDir,
		})
	}
	return entries
}
