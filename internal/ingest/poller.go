package ingest

import (
	"context"
	"fmt"
	log "log/slog"
	gosync "sync"
	"time"

	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/source"
)

// SyncState represents the current state of a source sync operation.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the sync state for a single source.
type SyncStatus struct {
	SourceType source.Type
	State      SyncState
	LastSync   time.Time
	Error      error
}

// Result reports the outcome of one fetch-and-ingest cycle for a source.
type Result struct {
	Source    source.Type
	Ingested  int
	Error     error
	AuthError bool
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// fetchLimit caps how many messages one cycle pulls from a source.
const fetchLimit = 50

// sourceEntry holds a registered source and its configuration.
type sourceEntry struct {
	src source.Source
	cfg model.SourceConfig
}

// Poller runs background polling of registered message sources, feeding
// everything they return through the ingest pipeline.
type Poller struct {
	pipeline  *Pipeline
	sources   []sourceEntry
	statuses  map[source.Type]*SyncStatus
	resultCh  chan Result
	triggerCh chan source.Type
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// NewPoller creates a Poller feeding the given pipeline.
func NewPoller(p *Pipeline) *Poller {
	return &Poller{
		pipeline:  p,
		statuses:  make(map[source.Type]*SyncStatus),
		resultCh:  make(chan Result, 16),
		triggerCh: make(chan source.Type, 16),
		stopCh:    make(chan struct{}),
	}
}

// RegisterSource adds a source and its configuration to the poller.
func (p *Poller) RegisterSource(src source.Source, cfg model.SourceConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := src.Type()
	p.sources = append(p.sources, sourceEntry{src: src, cfg: cfg})
	p.statuses[st] = &SyncStatus{
		SourceType: st,
		State:      SyncIdle,
	}
}

// Start launches a polling goroutine per registered source. It is a no-op
// when the poller is already running.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	for _, entry := range p.sources {
		go p.pollSource(entry)
	}
}

// Stop halts all polling goroutines.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Results exposes the stream of per-cycle outcomes.
func (p *Poller) Results() <-chan Result {
	return p.resultCh
}

// RefreshAll triggers an immediate poll of all registered sources.
func (p *Poller) RefreshAll() {
	p.mu.Lock()
	sources := make([]sourceEntry, len(p.sources))
	copy(sources, p.sources)
	p.mu.Unlock()

	for _, entry := range sources {
		select {
		case p.triggerCh <- entry.src.Type():
		default:
			// Channel full; skip to avoid blocking
		}
	}
}

// GetStatuses returns the current sync status of all registered sources.
func (p *Poller) GetStatuses() []SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SyncStatus, 0, len(p.statuses))
	for _, s := range p.statuses {
		statuses = append(statuses, *s)
	}
	return statuses
}

// pollSource runs the polling loop for a single source.
func (p *Poller) pollSource(entry sourceEntry) {
	interval := time.Duration(entry.cfg.PollIntervalSec) * time.Second
	if interval <= 0 {
		interval = 120 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	st := entry.src.Type()

	// Do an initial fetch immediately
	p.fetchAndIngest(entry, st)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetchAndIngest(entry, st)
		case triggerType := <-p.triggerCh:
			if triggerType == st {
				p.fetchAndIngest(entry, st)
			}
		}
	}
}

// fetchAndIngest performs a single fetch, routes every returned message
// through the pipeline, and sends a Result on the result channel.
func (p *Poller) fetchAndIngest(entry sourceEntry, st source.Type) {
	p.setStatus(st, SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	inbound, err := entry.src.FetchInbound(ctx, fetchLimit)
	if err != nil {
		p.setStatus(st, SyncError, err)
		p.sendResult(Result{
			Source:    st,
			Error:     err,
			AuthError: source.IsAuthError(err),
		})
		return
	}

	ingested := 0
	for _, in := range inbound {
		msg, ingestErr := p.pipeline.Ingest(ctx, in)
		if ingestErr != nil {
			log.Warn("ingest failed",
				"source", string(st), "sender", in.Sender, "error", ingestErr)
			continue
		}
		if msg != nil {
			ingested++
		}
	}

	p.setStatus(st, SyncIdle, nil)
	p.sendResult(Result{Source: st, Ingested: ingested})

	if ingested > 0 {
		log.Info(fmt.Sprintf("ingested %d new messages", ingested), "source", string(st))
	}
}

// setStatus updates the sync status for a source type.
func (p *Poller) setStatus(st source.Type, state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[st]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == SyncIdle && err == nil {
		status.LastSync = time.Now()
	}
}

// sendResult sends a Result on the result channel without blocking.
func (p *Poller) sendResult(msg Result) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}
