package state

import (
	"capacity/internal/domain"
	"capacity/internal/services"
)

type scanMsg struct {
	root string
	mode domain.HistoryMode
}

type cancelMsg struct{}

type backMsg struct{}

type refreshMsg struct{}

type snapshotMsg struct {
	reply chan Snapshot
}

type scanFinishedMsg struct {
	generation uint64
	result     services.ScanResult
	volume     *domain.VolumeUsage
}

type scanProgressMsg struct {
	generation uint64
	progress   services.ScanProgress
}
