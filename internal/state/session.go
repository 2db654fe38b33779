package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"capacity/internal/domain"
	"capacity/internal/services"
)

// Session owns a State and serialises every change to it through a single
// goroutine started by Run. Methods may be called from any goroutine; they
// block until Run has accepted the request.
type Session struct {
	scanner services.Scanner
	logger  zerolog.Logger
	inbox   chan any
	changed chan struct{}
	closing chan struct{}
	stopped chan struct{}
	scans   sync.WaitGroup

	// Owned by the Run goroutine.
	state  *State
	runCtx context.Context
	cancel context.CancelFunc

	// Written once before stopped is closed.
	final Snapshot
}

func NewSession(scanner services.Scanner, logger zerolog.Logger) *Session {
	return &Session{
		scanner: scanner,
		logger:  logger.With().Str("component", "session").Logger(),
		inbox:   make(chan any),
		changed: make(chan struct{}, 1),
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
		state:   NewState(),
	}
}

// Run processes requests until ctx is done, then cancels any scan in flight
// and waits for every scan goroutine to return before closing Done.
func (session *Session) Run(ctx context.Context) {
	session.runCtx = ctx
	defer func() {
		session.cancelInFlight()
		close(session.closing)
		session.scans.Wait()
		session.final = session.state.Snapshot()
		close(session.stopped)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-session.inbox:
			session.handle(msg)
		}
	}
}

// Changed signals after every state change. Signals coalesce, so readers
// should call Snapshot rather than count them.
func (session *Session) Changed() <-chan struct{} {
	return session.changed
}

// Done is closed once Run has returned and no scan goroutine is left.
func (session *Session) Done() <-chan struct{} {
	return session.stopped
}

func (session *Session) Scan(root string, mode domain.HistoryMode) {
	session.post(scanMsg{root: root, mode: mode})
}

func (session *Session) Cancel() {
	session.post(cancelMsg{})
}

func (session *Session) GoBack() {
	session.post(backMsg{})
}

func (session *Session) Refresh() {
	session.post(refreshMsg{})
}

func (session *Session) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	if !session.post(snapshotMsg{reply: reply}) {
		<-session.stopped
		return session.final
	}
	return <-reply
}

func (session *Session) post(msg any) bool {
	select {
	case session.inbox <- msg:
		return true
	case <-session.closing:
		return false
	}
}

func (session *Session) handle(msg any) {
	switch typed := msg.(type) {
	case scanMsg:
		session.startScan(typed.root, typed.mode)
	case refreshMsg:
		if session.state.Root == "" {
			return
		}
		session.startScan(session.state.Root, domain.HistoryPreserve)
	case backMsg:
		root, ok := session.state.PopHistory()
		if !ok {
			return
		}
		session.startScan(root, domain.HistoryPreserve)
	case cancelMsg:
		if !session.state.Cancel() {
			return
		}
		session.cancelInFlight()
		session.logger.Info().Str("path", session.state.Root).Uint64("generation", session.state.Generation).Msg("Scan cancelled")
		session.notify()
	case snapshotMsg:
		typed.reply <- session.state.Snapshot()
	case scanProgressMsg:
		if session.state.ApplyProgress(typed.generation, typed.progress) {
			session.notify()
		}
	case scanFinishedMsg:
		session.finishScan(typed)
	}
}

func (session *Session) startScan(root string, mode domain.HistoryMode) {
	session.cancelInFlight()
	generation := session.state.BeginScan(root, mode)
	ctx, cancel := context.WithCancel(session.runCtx)
	session.cancel = cancel
	session.logger.Info().
		Str("path", root).
		Uint64("generation", generation).
		Int("history", len(session.state.History)).
		Msg("Scan started")
	session.scans.Add(1)
	go session.runScan(ctx, generation, root)
	session.notify()
}

func (session *Session) runScan(ctx context.Context, generation uint64, root string) {
	defer session.scans.Done()
	progress := make(chan services.ScanProgress, 16)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for update := range progress {
			session.post(scanProgressMsg{generation: generation, progress: update})
		}
	}()

	result := session.scanner.ListChildren(ctx, services.ScanRequest{RootPath: root, Progress: progress})
	close(progress)
	<-forwarded

	var volume *domain.VolumeUsage
	if ctx.Err() != nil {
		result.Cancelled = true
	} else if usage, ok := session.scanner.VolumeUsage(root); ok {
		volume = &usage
	}
	session.post(scanFinishedMsg{generation: generation, result: result, volume: volume})
}

func (session *Session) finishScan(msg scanFinishedMsg) {
	if !session.state.ApplyResult(msg.generation, msg.result, msg.volume) {
		session.logger.Debug().
			Uint64("generation", msg.generation).
			Uint64("current", session.state.Generation).
			Msg("Discarding stale scan result")
		return
	}
	session.cancelInFlight()
	session.logger.Info().
		Str("path", session.state.Root).
		Uint64("generation", msg.generation).
		Str("status", session.state.Status.String()).
		Int("entries", len(session.state.Entries)).
		Int64("skipped", msg.result.Stats.Skipped()).
		Dur("duration", msg.result.Duration).
		Msg("Scan finished")
	session.notify()
}

func (session *Session) cancelInFlight() {
	if session.cancel != nil {
		session.cancel()
		session.cancel = nil
	}
}

func (session *Session) notify() {
	select {
	case session.changed <- struct{}{}:
	default:
	}
}
