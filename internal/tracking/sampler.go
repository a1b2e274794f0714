package tracking

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

const (
	DefaultCompletionThreshold = 80
	DefaultSaveInterval        = 15 * time.Second
)

var ErrStopped = errors.New("tracking: registry closed")

type Config struct {
	CompletionThreshold int
	SaveInterval        time.Duration
}

func (c Config) withDefaults() Config {
	if c.CompletionThreshold <= 0 || c.CompletionThreshold > 100 {
		c.CompletionThreshold = DefaultCompletionThreshold
	}
	if c.SaveInterval <= 0 {
		c.SaveInterval = DefaultSaveInterval
	}
	return c
}

// Record is one persisted progress sample.
type Record struct {
	UserID          uuid.UUID
	ContentID       uuid.UUID
	Percentage      int
	Completed       bool
	PositionSeconds float64
	At              time.Time
}

type Persister interface {
	Persist(ctx context.Context, rec Record) error
}

type PersisterFunc func(ctx context.Context, rec Record) error

func (f PersisterFunc) Persist(ctx context.Context, rec Record) error { return f(ctx, rec) }

type SamplerOptions struct {
	UserID    uuid.UUID
	ContentID uuid.UUID
	Position  func() float64
	Duration  func() float64
	Config    Config
	Persister Persister
	Clock     Clock
	Scheduler Scheduler
	Logger    *logger.Logger
}

// Sampler turns a moving playback position into rate-limited progress
// records. Ticks, Observe, Ended and Stop all run under one mutex, so a tick
// in flight finishes before Stop returns and none runs after.
type Sampler struct {
	mu sync.Mutex

	userID    uuid.UUID
	contentID uuid.UUID
	position  func() float64
	duration  func() float64
	cfg       Config
	persister Persister
	clock     Clock
	scheduler Scheduler
	log       *logger.Logger

	ctx  context.Context
	stop StopFunc
	gen  uint64

	lastPersisted float64
	completedSent bool
}

func NewSampler(opts SamplerOptions) *Sampler {
	clk := opts.Clock
	if clk == nil {
		clk = SystemClock
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = TickerScheduler
	}
	return &Sampler{
		userID:    opts.UserID,
		contentID: opts.ContentID,
		position:  opts.Position,
		duration:  opts.Duration,
		cfg:       opts.Config.withDefaults(),
		persister: opts.Persister,
		clock:     clk,
		scheduler: sched,
		log:       opts.Logger.With("component", "Sampler", "user_id", opts.UserID, "content_id", opts.ContentID),
	}
}

// Start moves Idle -> Sampling. Calling it while sampling does nothing.
func (s *Sampler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.ctx = ctx
	s.gen++
	gen := s.gen
	s.stop = s.scheduler.Every(s.cfg.SaveInterval, func() { s.tick(gen) })
}

// Stop moves Sampling -> Idle. It is idempotent.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	s.stop()
	s.stop = nil
}

func (s *Sampler) Sampling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Sampler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil || gen != s.gen {
		return
	}
	_, _ = s.sampleLocked(s.ctx)
}

// Observe runs the save decision once, outside the timer. It reports whether
// a record was persisted.
func (s *Sampler) Observe(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleLocked(ctx)
}

// Ended persists a completed record at 100% whatever the last sample was.
func (s *Sampler) Ended(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.readPosition()
	if d := s.readDuration(); d > 0 {
		pos = d
	}
	rec := Record{
		UserID:          s.userID,
		ContentID:       s.contentID,
		Percentage:      100,
		Completed:       true,
		PositionSeconds: pos,
		At:              s.clock.Now(),
	}
	if err := s.persister.Persist(ctx, rec); err != nil {
		s.log.Warn("Persist end-of-media failed", "error", err)
		return err
	}
	s.lastPersisted = pos
	s.completedSent = true
	return nil
}

func (s *Sampler) sampleLocked(ctx context.Context) (bool, error) {
	d := s.readDuration()
	if d <= 0 {
		return false, nil
	}
	pos := s.readPosition()
	pct := Percentage(pos, d)
	completed := pct >= s.cfg.CompletionThreshold
	justCompleted := completed && !s.completedSent

	if !justCompleted && math.Abs(pos-s.lastPersisted) < s.cfg.SaveInterval.Seconds() {
		return false, nil
	}

	rec := Record{
		UserID:          s.userID,
		ContentID:       s.contentID,
		Percentage:      pct,
		Completed:       completed,
		PositionSeconds: pos,
		At:              s.clock.Now(),
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.persister.Persist(ctx, rec); err != nil {
		s.log.Warn("Persist progress failed", "percentage", pct, "error", err)
		return false, err
	}
	s.lastPersisted = pos
	if completed {
		s.completedSent = true
	}
	return true, nil
}

func (s *Sampler) readDuration() float64 {
	if s.duration == nil {
		return 0
	}
	d := s.duration()
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

func (s *Sampler) readPosition() float64 {
	if s.position == nil {
		return 0
	}
	p := s.position()
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return p
}

// Percentage is round(position/duration*100) clamped to [0,100].
func Percentage(position, duration float64) int {
	if duration <= 0 {
		return 0
	}
	pct := int(math.Round(position / duration * 100))
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
