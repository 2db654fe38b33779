package services

import (
	"time"

	"capacity/internal/domain"
)

type ScanResult struct {
	RootPath  string
	Entries   []domain.ChildEntry
	Stats     ScanStats
	Cancelled bool
	Duration  time.Duration
}

// ScanStats counts what a scan visited and what it left out of the result.
type ScanStats struct {
	Files       int64
	Directories int64
	Symlinks    int64
	Unreadable  int64
	ZeroSized   int64
}

func (stats *ScanStats) merge(other ScanStats) {
	stats.Files += other.Files
	stats.Directories += other.Directories
	stats.Symlinks += other.Symlinks
	stats.Unreadable += other.Unreadable
	stats.ZeroSized += other.ZeroSized
}

// Skipped is the number of entries that never contributed to any size.
func (stats ScanStats) Skipped() int64 {
	return stats.Symlinks + stats.Unreadable
}
