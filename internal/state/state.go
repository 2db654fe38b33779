package state

import (
	"fmt"
	"sort"
	"time"

	"capacity/internal/domain"
	"capacity/internal/services"
)

// State is the scan session data. It is not safe for concurrent use; Session
// confines it to its owner goroutine.
type State struct {
	Root       string
	Entries    []domain.ChildEntry
	History    []string
	Status     domain.ScanStatus
	Volume     *domain.VolumeUsage
	Generation uint64
	Scanned    int64
	Current    string
	Stats      services.ScanStats
	Duration   time.Duration
}

func NewState() *State {
	return &State{Status: domain.StatusIdle}
}

// BeginScan switches to root, applies the history policy and returns the
// generation the new scan must present when it completes.
func (appState *State) BeginScan(root string, mode domain.HistoryMode) uint64 {
	switch mode {
	case domain.HistoryAppend:
		if appState.Root != "" {
			appState.History = append(appState.History, appState.Root)
		}
	case domain.HistoryPreserve:
	default:
		appState.History = nil
	}
	appState.Root = root
	appState.Entries = nil
	appState.Volume = nil
	appState.Status = domain.StatusScanning
	appState.Scanned = 0
	appState.Current = ""
	appState.Stats = services.ScanStats{}
	appState.Duration = 0
	appState.Generation++
	return appState.Generation
}

// ApplyResult stores a finished scan. Results from superseded or cancelled
// generations are rejected.
func (appState *State) ApplyResult(generation uint64, result services.ScanResult, volume *domain.VolumeUsage) bool {
	if generation != appState.Generation || appState.Status != domain.StatusScanning {
		return false
	}
	appState.Current = ""
	if result.Cancelled {
		appState.Entries = nil
		appState.Status = domain.StatusCancelled
		return true
	}

	entries := make([]domain.ChildEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if entry.SizeBytes > 0 {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SizeBytes > entries[j].SizeBytes
	})

	appState.Entries = entries
	appState.Volume = volume
	appState.Stats = result.Stats
	appState.Duration = result.Duration
	if len(entries) == 0 {
		appState.Status = domain.StatusEmpty
	} else {
		appState.Status = domain.StatusComplete
	}
	return true
}

// ApplyProgress records the item count of the running scan and the last path
// it reported. Completion updates carry no path and leave Current alone.
func (appState *State) ApplyProgress(generation uint64, progress services.ScanProgress) bool {
	if generation != appState.Generation || appState.Status != domain.StatusScanning {
		return false
	}
	appState.Scanned = progress.Scanned
	if progress.Current != "" {
		appState.Current = progress.Current
	}
	return true
}

// Cancel marks the current scan cancelled. It reports false when nothing was
// scanning.
func (appState *State) Cancel() bool {
	if appState.Status != domain.StatusScanning {
		return false
	}
	appState.Entries = nil
	appState.Status = domain.StatusCancelled
	return true
}

func (appState *State) PopHistory() (string, bool) {
	if len(appState.History) == 0 {
		return "", false
	}
	last := len(appState.History) - 1
	root := appState.History[last]
	appState.History = appState.History[:last]
	return root, true
}

func (appState *State) Snapshot() Snapshot {
	snapshot := Snapshot{
		Root:       appState.Root,
		Status:     appState.Status,
		Generation: appState.Generation,
		Scanned:    appState.Scanned,
		Current:    appState.Current,
		Stats:      appState.Stats,
		Duration:   appState.Duration,
	}
	if appState.Entries != nil {
		snapshot.Entries = append([]domain.ChildEntry{}, appState.Entries...)
	}
	if appState.History != nil {
		snapshot.History = append([]string{}, appState.History...)
	}
	if appState.Volume != nil {
		volume := *appState.Volume
		snapshot.Volume = &volume
	}
	return snapshot
}

// Snapshot is an immutable copy of the session handed to readers.
type Snapshot struct {
	Root       string
	Entries    []domain.ChildEntry
	History    []string
	Status     domain.ScanStatus
	Volume     *domain.VolumeUsage
	Generation uint64
	Scanned    int64
	Current    string
	Stats      services.ScanStats
	Duration   time.Duration
}

func (snapshot Snapshot) SelectionTotal() int64 {
	var total int64
	for _, entry := range snapshot.Entries {
		total += entry.SizeBytes
	}
	return total
}

// Unaccounted is volume-used space not attributed to any listed entry.
func (snapshot Snapshot) Unaccounted() int64 {
	if snapshot.Volume == nil {
		return 0
	}
	gap := snapshot.Volume.UsedBytes - snapshot.SelectionTotal()
	if gap < 0 {
		return 0
	}
	return gap
}

func (snapshot Snapshot) CanGoBack() bool {
	return len(snapshot.History) > 0
}

func (snapshot Snapshot) Scanning() bool {
	return snapshot.Status == domain.StatusScanning
}

func (snapshot Snapshot) StatusText() string {
	switch snapshot.Status {
	case domain.StatusScanning:
		return fmt.Sprintf("Scanning %s...", snapshot.Root)
	case domain.StatusComplete:
		return "Scan complete."
	case domain.StatusEmpty:
		return "Nothing to show here."
	case domain.StatusCancelled:
		return "Scan cancelled."
	default:
		return "Pick a folder to see where the space goes."
	}
}
