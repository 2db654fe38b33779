package domain

type ScanStatus int

const (
	StatusIdle ScanStatus = iota
	StatusScanning
	StatusComplete
	StatusCancelled
	StatusEmpty
)

func (status ScanStatus) String() string {
	switch status {
	case StatusScanning:
		return "scanning"
	case StatusComplete:
		return "complete"
	case StatusCancelled:
		return "cancelled"
	case StatusEmpty:
		return "empty"
	default:
		return "idle"
	}
}

// Terminal reports whether a scan has finished one way or another.
func (status ScanStatus) Terminal() bool {
	return status == StatusComplete || status == StatusCancelled || status == StatusEmpty
}

// HistoryMode selects how a scan treats the navigation history.
type HistoryMode int

const (
	// HistoryReset clears history, used for a brand-new top-level scan.
	HistoryReset HistoryMode = iota
	// HistoryAppend pushes the root being left, used when drilling down.
	HistoryAppend
	// HistoryPreserve leaves history untouched, used by refresh and back.
	HistoryPreserve
)
