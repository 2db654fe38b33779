package services

import (
	"sync/atomic"
)

const progressEvery = 200

type ScanProgress struct {
	Path      string
	Scanned   int64
	Current   string
	Completed bool
}

type progressTracker struct {
	root    string
	scanned atomic.Int64
	ch      chan<- ScanProgress
}

func newProgressTracker(root string, ch chan<- ScanProgress) *progressTracker {
	return &progressTracker{root: root, ch: ch}
}

func (tracker *progressTracker) visit(path string) {
	count := tracker.scanned.Add(1)
	if tracker.ch == nil || count%progressEvery != 0 {
		return
	}
	progressNonBlocking(tracker.ch, ScanProgress{Path: tracker.root, Scanned: count, Current: path})
}

func (tracker *progressTracker) done() {
	if tracker.ch == nil {
		return
	}
	progressNonBlocking(tracker.ch, ScanProgress{Path: tracker.root, Scanned: tracker.scanned.Load(), Completed: true})
}

func progressNonBlocking(ch chan<- ScanProgress, msg ScanProgress) {
	select {
	case ch <- msg:
	default:
	}
}
