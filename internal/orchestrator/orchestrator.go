// Package orchestrator routes user queries to a backend adapter,
// normalizes the reply, and maintains the conversation log.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docchat/internal/domain"
	"docchat/internal/normalize"
	"docchat/internal/session"
)

// State is the per-query lifecycle: Idle -> Sending -> (Delivered |
// Failed) -> Idle. At most one query is in Sending at a time.
type State int

const (
	StateIdle State = iota
	StateSending
	StateDelivered
	StateFailed
)

var (
	// ErrBusy rejects a submission while another query is in flight.
	ErrBusy = errors.New("a query is already in flight")
	// ErrStale marks a response that arrived after the session it was
	// sent under was reset; the response is discarded.
	ErrStale = errors.New("response discarded after session reset")
	// ErrNoAdapter means the resolved mode/variant has no adapter wired.
	ErrNoAdapter = errors.New("no adapter for the selected mode")
)

// AvailabilitySource is the monitor surface the orchestrator consults.
type AvailabilitySource interface {
	Status(service domain.Mode) domain.ServiceStatus
	CheckNow(ctx context.Context)
}

// Limits carries the per-mode result caps and the KAG document filter.
type Limits struct {
	RAGLimit     int
	KAGLimit     int
	DocumentType string
}

// Orchestrator exclusively owns the Session and message log for the
// lifetime of the conversation.
type Orchestrator struct {
	mu       sync.Mutex
	state    State
	outcome  State
	adapters map[domain.Source]domain.Adapter
	avail    AvailabilitySource
	tracker  *session.Tracker
	log      []domain.Message
	limits   Limits
	logger   *zap.Logger
}

// New wires the orchestrator. Adapters are indexed by their source.
func New(adapters []domain.Adapter, avail AvailabilitySource, tracker *session.Tracker, limits Limits, logger *zap.Logger) *Orchestrator {
	if limits.RAGLimit <= 0 {
		limits.RAGLimit = 5
	}
	if limits.KAGLimit <= 0 {
		limits.KAGLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	byID := make(map[domain.Source]domain.Adapter, len(adapters))
	for _, a := range adapters {
		byID[a.Source()] = a
	}
	return &Orchestrator{
		state:    StateIdle,
		adapters: byID,
		avail:    avail,
		tracker:  tracker,
		limits:   limits,
		logger:   logger,
	}
}

// Submit runs one query through the full pipeline and returns the
// assistant message appended to the log. A submission while another
// query is in flight fails with ErrBusy and leaves the log untouched.
func (o *Orchestrator) Submit(ctx context.Context, text string) (domain.Message, error) {
	o.mu.Lock()
	if o.state == StateSending {
		o.mu.Unlock()
		return domain.Message{}, ErrBusy
	}
	o.state = StateSending

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
	o.log = append(o.log, userMsg)

	sess := o.tracker.Current()
	mode := sess.Mode
	fellBack := false
	if other := otherMode(mode); !o.avail.Status(mode).Usable() &&
		o.avail.Status(other).State == domain.AvailabilityConnected {
		o.logger.Info("failing over to available service",
			zap.String("from", string(mode)),
			zap.String("to", string(other)))
		o.tracker.OnModeSwitch(other)
		// Mode switch resets the conversation; the pending user message
		// restarts it.
		o.log = []domain.Message{userMsg}
		mode = other
		fellBack = true
		sess = o.tracker.Current()
	}

	adapter, req, err := o.resolve(sess)
	gen := o.tracker.Generation()
	o.mu.Unlock()

	if err != nil {
		return o.fail(gen, err)
	}
	req.Text = text

	resp, err := adapter.Invoke(ctx, req)
	if err != nil {
		o.logger.Warn("backend query failed",
			zap.String("mode", string(mode)),
			zap.Error(err))
		// Refresh availability so the next submission can fail over.
		go o.avail.CheckNow(context.Background())
		return o.fail(gen, err)
	}

	msg := normalize.Normalize(resp, mode)
	msg.AutoFallback = fellBack

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.tracker.Generation() {
		o.state = StateIdle
		return domain.Message{}, ErrStale
	}
	o.tracker.OnResponse(resp.SessionID())
	o.log = append(o.log, msg)
	o.outcome = StateDelivered
	o.state = StateIdle
	return msg, nil
}

// fail converts an adapter failure into the single user-visible error
// message, unless the session moved on while the query was in flight.
func (o *Orchestrator) fail(gen uint64, cause error) (domain.Message, error) {
	msg := normalize.ErrorMessage(cause.Error())
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.tracker.Generation() {
		o.state = StateIdle
		return domain.Message{}, ErrStale
	}
	o.log = append(o.log, msg)
	o.outcome = StateFailed
	o.state = StateIdle
	return msg, nil
}

// resolve picks the adapter and builds the request for the session's
// mode and variant. Callers hold o.mu.
func (o *Orchestrator) resolve(sess domain.Session) (domain.Adapter, domain.QueryRequest, error) {
	req := domain.QueryRequest{
		Mode:      sess.Mode,
		Variant:   sess.Variant,
		SessionID: sess.ID,
	}
	var source domain.Source
	switch sess.Mode {
	case domain.ModeRAG:
		source = domain.SourceRAG
		req.Limit = o.limits.RAGLimit
	case domain.ModeKAG:
		req.Limit = o.limits.KAGLimit
		req.DocumentType = o.limits.DocumentType
		switch sess.Variant {
		case domain.VariantSimplified:
			source = domain.SourceKAGSimplified
		case domain.VariantText:
			source = domain.SourceKAGText
		default:
			source = domain.SourceKAGStandard
		}
	default:
		return nil, req, ErrNoAdapter
	}
	adapter, ok := o.adapters[source]
	if !ok {
		return nil, req, ErrNoAdapter
	}
	return adapter, req, nil
}

// SwitchMode re-probes availability, then moves the conversation to
// mode, dropping the session id and the message log.
func (o *Orchestrator) SwitchMode(ctx context.Context, mode domain.Mode) {
	o.avail.CheckNow(ctx)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tracker.OnModeSwitch(mode)
	o.log = nil
}

// SetVariant selects the KAG query variant without touching the session.
func (o *Orchestrator) SetVariant(v domain.Variant) {
	o.tracker.SetVariant(v)
}

// Reset clears the conversation and starts over in mode.
func (o *Orchestrator) Reset(mode domain.Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tracker.Clear()
	o.tracker.OnModeSwitch(mode)
	o.log = nil
}

// Messages returns a copy of the conversation log in append order.
func (o *Orchestrator) Messages() []domain.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.Message, len(o.log))
	copy(out, o.log)
	return out
}

// Session returns the active session.
func (o *Orchestrator) Session() domain.Session {
	return o.tracker.Current()
}

// State reports the query lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastOutcome reports how the most recent turn ended: StateDelivered,
// StateFailed, or StateIdle when no turn has completed yet.
func (o *Orchestrator) LastOutcome() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

func otherMode(mode domain.Mode) domain.Mode {
	if mode == domain.ModeRAG {
		return domain.ModeKAG
	}
	return domain.ModeRAG
}
