package ui

import "capacity/internal/state"

type sessionChangedMsg struct {
	snapshot state.Snapshot
}

type sessionStoppedMsg struct{}
