package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

const DefaultIdleTimeout = 2 * time.Minute

type sessionKey struct {
	userID    uuid.UUID
	contentID uuid.UUID
}

// playhead holds the latest position/duration reported by the player.
type playhead struct {
	mu       sync.Mutex
	position float64
	duration float64
}

func (p *playhead) set(position, duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if position >= 0 {
		p.position = position
	}
	if duration > 0 {
		p.duration = duration
	}
}

func (p *playhead) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *playhead) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

type session struct {
	sampler  *Sampler
	head     *playhead
	lastSeen time.Time
}

// SessionState is what the HTTP layer reports back after a playback call.
type SessionState struct {
	UserID     uuid.UUID `json:"user_id"`
	ContentID  uuid.UUID `json:"content_id"`
	Position   float64   `json:"position_seconds"`
	Duration   float64   `json:"duration_seconds"`
	Percentage int       `json:"percentage"`
	Sampling   bool      `json:"sampling"`
	Persisted  bool      `json:"persisted"`
}

type RegistryOptions struct {
	Config      Config
	IdleTimeout time.Duration
	Persister   Persister
	Clock       Clock
	Scheduler   Scheduler
	Logger      *logger.Logger
	// OnSweep, when set, is told after each sweep how many sessions were
	// stopped and how many remain.
	OnSweep func(swept, active int)
}

// Registry owns one sampler per (user, content) playback session.
type Registry struct {
	mu       sync.Mutex
	baseCtx  context.Context
	cancel   context.CancelFunc
	opts     RegistryOptions
	log      *logger.Logger
	sessions map[sessionKey]*session
	closed   bool
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TickerScheduler
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	opts.Config = opts.Config.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		baseCtx:  ctx,
		cancel:   cancel,
		opts:     opts,
		log:      opts.Logger.With("component", "TrackingRegistry"),
		sessions: make(map[sessionKey]*session),
	}
}

func (r *Registry) newSession(userID, contentID uuid.UUID) *session {
	head := &playhead{}
	return &session{
		head: head,
		sampler: NewSampler(SamplerOptions{
			UserID:    userID,
			ContentID: contentID,
			Position:  head.Position,
			Duration:  head.Duration,
			Config:    r.opts.Config,
			Persister: r.opts.Persister,
			Clock:     r.opts.Clock,
			Scheduler: r.opts.Scheduler,
			Logger:    r.opts.Logger,
		}),
	}
}

// getOrStart returns the live session for key, starting one if needed.
func (r *Registry) getOrStart(userID, contentID uuid.UUID) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrStopped
	}
	key := sessionKey{userID: userID, contentID: contentID}
	sess, ok := r.sessions[key]
	if !ok {
		sess = r.newSession(userID, contentID)
		r.sessions[key] = sess
	}
	sess.lastSeen = r.opts.Clock.Now()
	sess.sampler.Start(r.baseCtx)
	return sess, nil
}

func (r *Registry) Start(ctx context.Context, userID, contentID uuid.UUID, position, duration float64) (SessionState, error) {
	sess, err := r.getOrStart(userID, contentID)
	if err != nil {
		return SessionState{}, err
	}
	sess.head.set(position, duration)
	r.log.Debug("Playback started", "user_id", userID, "content_id", contentID)
	return r.state(userID, contentID, sess, false), nil
}

// Heartbeat records the player's position and runs the save decision.
func (r *Registry) Heartbeat(ctx context.Context, userID, contentID uuid.UUID, position, duration float64) (SessionState, error) {
	sess, err := r.getOrStart(userID, contentID)
	if err != nil {
		return SessionState{}, err
	}
	sess.head.set(position, duration)
	persisted, err := sess.sampler.Observe(ctx)
	if err != nil {
		return SessionState{}, err
	}
	return r.state(userID, contentID, sess, persisted), nil
}

// Stop ends the session without a final record. Unknown sessions are ignored.
func (r *Registry) Stop(userID, contentID uuid.UUID) {
	r.mu.Lock()
	key := sessionKey{userID: userID, contentID: contentID}
	sess, ok := r.sessions[key]
	delete(r.sessions, key)
	r.mu.Unlock()
	if ok {
		sess.sampler.Stop()
	}
}

// Ended forces a completed 100% record and closes the session.
func (r *Registry) Ended(ctx context.Context, userID, contentID uuid.UUID, duration float64) (SessionState, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return SessionState{}, ErrStopped
	}
	key := sessionKey{userID: userID, contentID: contentID}
	sess, ok := r.sessions[key]
	if ok {
		delete(r.sessions, key)
	} else {
		sess = r.newSession(userID, contentID)
	}
	r.mu.Unlock()

	sess.sampler.Stop()
	sess.head.set(-1, duration)
	if err := sess.sampler.Ended(ctx); err != nil {
		return SessionState{}, err
	}
	st := r.state(userID, contentID, sess, true)
	st.Percentage = 100
	st.Position = sess.head.Duration()
	return st, nil
}

// Sweep stops sessions that have not been seen for longer than the idle
// timeout and returns how many were stopped.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var idle []*session
	for key, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.opts.IdleTimeout {
			idle = append(idle, sess)
			delete(r.sessions, key)
		}
	}
	active := len(r.sessions)
	r.mu.Unlock()
	for _, sess := range idle {
		sess.sampler.Stop()
	}
	if r.opts.OnSweep != nil {
		r.opts.OnSweep(len(idle), active)
	}
	if len(idle) > 0 {
		r.log.Debug("Swept idle playback sessions", "count", len(idle))
	}
	return len(idle)
}

// RunSweeper sweeps on every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	stop := r.opts.Scheduler.Every(interval, func() { r.Sweep(r.opts.Clock.Now()) })
	<-ctx.Done()
	stop()
}

func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every session; later calls fail with ErrStopped.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[sessionKey]*session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.sampler.Stop()
	}
	r.cancel()
}

func (r *Registry) state(userID, contentID uuid.UUID, sess *session, persisted bool) SessionState {
	pos, dur := sess.head.Position(), sess.head.Duration()
	return SessionState{
		UserID:     userID,
		ContentID:  contentID,
		Position:   pos,
		Duration:   dur,
		Percentage: Percentage(pos, dur),
		Sampling:   sess.sampler.Sampling(),
		Persisted:  persisted,
	}
}
