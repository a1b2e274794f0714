package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

var (
	ErrNotAuthoritative = errors.New("store: origin is not authoritative for entity")
	ErrInvalidCommand   = errors.New("store: invalid command")
	ErrUnknownEntity    = errors.New("store: unknown entity")
	ErrCurrentUserOwned = errors.New("store: current user is owned by the session")
)

// DefaultJournalLimit is how many commands the journal holds before it is
// folded into the seed.
const DefaultJournalLimit = 1024

// Store is the single client-side state container. Every mutation goes
// through Dispatch, which serializes it, validates it, applies it to a copy
// and only then commits and journals it.
type Store struct {
	mu           sync.RWMutex
	log          *logger.Logger
	authority    Authority
	validate     *validator.Validate
	journalLimit int
	seed         State
	state        State
	journal      []Command
}

type Option func(*Store)

// WithJournalLimit sets the compaction threshold. Values below one keep the
// default.
func WithJournalLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.journalLimit = n
		}
	}
}

func New(baseLog *logger.Logger, authority Authority, seed State, opts ...Option) (*Store, error) {
	if err := authority.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		log:          baseLog.With("component", "Store"),
		authority:    authority.clone(),
		validate:     newValidator(),
		journalLimit: DefaultJournalLimit,
		seed:         seed.Clone(),
		state:        seed.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Authority() Authority {
	return s.authority.clone()
}

// Dispatch applies one command. On any error the state is unchanged.
func (s *Store) Dispatch(ctx context.Context, cmd Command) error {
	entity := entityOf(cmd.Name)
	if entity == "" {
		return fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, cmd.Name)
	}
	if !s.authority.Accepts(entity, cmd.Origin) {
		return fmt.Errorf("%w: %s via %s (authority=%s)", ErrNotAuthoritative, entity, cmd.Origin, s.authority.Of(entity))
	}
	if err := validatePayload(s.validate, cmd.Payload); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.cloneFor(entity)
	if err := apply(&next, cmd); err != nil {
		s.log.Debug("Command rejected", "command", cmd.Name, "origin", cmd.Origin, "error", err)
		return err
	}
	s.state = next
	s.journal = append(s.journal, cmd)
	if len(s.journal) >= s.journalLimit {
		s.compactLocked()
	}
	return nil
}

// compactLocked folds the journal into the seed so Replay(Seed, Journal)
// still rebuilds the live state.
func (s *Store) compactLocked() {
	s.seed = s.state.Clone()
	s.journal = nil
	s.log.Debug("Journal compacted", "seed_classes", len(s.seed.Classes), "seed_users", len(s.seed.Users))
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Journal returns the commands applied since the seed, in order.
func (s *Store) Journal() []Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Command(nil), s.journal...)
}

// Seed returns the base state the journal replays onto.
func (s *Store) Seed() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seed.Clone()
}

// Replay rebuilds state from a seed and a journal. Commands that were accepted
// once are accepted again, so the result matches the live store.
func Replay(seed State, journal []Command) (State, error) {
	st := seed.Clone()
	for i, cmd := range journal {
		next := st.cloneFor(entityOf(cmd.Name))
		if err := apply(&next, cmd); err != nil {
			return State{}, fmt.Errorf("replay command %d (%s): %w", i, cmd.Name, err)
		}
		st = next
	}
	return st, nil
}

func (s *Store) CurrentUser() (*types.CurrentUser, Owner) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentUser == nil {
		return nil, s.state.CurrentUserOwner
	}
	cu := *s.state.CurrentUser
	cu.Roles = append([]types.Role{}, cu.Roles...)
	return &cu, s.state.CurrentUserOwner
}

// ReplaceCurrentUser installs a session-resolved record, replacing whatever
// was there before.
func (s *Store) ReplaceCurrentUser(ctx context.Context, cu types.CurrentUser) error {
	return s.Dispatch(ctx, Local(CmdSetCurrentUser, SetCurrentUser{User: cu, Owner: OwnerSession}))
}

func (s *Store) ClearCurrentUser(ctx context.Context) error {
	return s.Dispatch(ctx, Local(CmdClearCurrentUser, ClearCurrentUser{Owner: OwnerSession}))
}

// LegacyClasses serves the read-only singular-shape view.
func (s *Store) LegacyClasses() []LegacyClassView {
	snap := s.Snapshot()
	out := make([]LegacyClassView, 0, len(snap.Classes))
	for _, c := range snap.Classes {
		out = append(out, LegacyClass(c, snap.StudentCount(c.ID)))
	}
	return out
}
