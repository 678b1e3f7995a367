package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/rs/zerolog"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("game not found")

// subscriberBuffer is how many snapshots a subscriber may lag behind before
// it is dropped.
const subscriberBuffer = 8

// GameState is the in-memory state tracked per match.
type GameState struct {
	ID      string
	Game    domain.Game
	Created time.Time
	Updated time.Time
}

// match guards one game; transitions on different matches do not contend.
type match struct {
	mu    sync.Mutex
	state GameState
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan GameState
	closed bool
}

// send delivers gs without blocking. It reports false when the buffer is full.
func (s *subscriber) send(gs GameState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- gs:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service manages matches and their subscribers.
type Service struct {
	mu    sync.Mutex
	games map[string]*match
	subs  map[string]map[*subscriber]struct{}

	rules []domain.Option
	log   zerolog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l.With().Str("component", "app").Logger() }
}

// WithRules applies domain options to every game the service creates.
func WithRules(opts ...domain.Option) Option {
	return func(s *Service) { s.rules = append(s.rules, opts...) }
}

// NewService creates an empty service.
func NewService(opts ...Option) *Service {
	s := &Service{
		games: make(map[string]*match),
		subs:  make(map[string]map[*subscriber]struct{}),
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame creates and registers a new match at the opening position.
func (s *Service) CreateGame() (*GameState, error) {
	id := newMatchID()
	now := s.now()
	m := &match{state: GameState{ID: id, Game: domain.New(s.rules...), Created: now, Updated: now}}

	s.mu.Lock()
	if _, dup := s.games[id]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("match id collision: %s", id)
	}
	s.games[id] = m
	s.mu.Unlock()

	s.log.Info().Str("game", id).Msg("game created")
	cp := m.state
	return &cp, nil
}

// Get returns a copy of the match state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	m, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := m.state
	return &cp, true
}

// Play applies a move for whoever is to move and broadcasts the result.
// When the engine rejects the move the unchanged state is returned together
// with the error.
func (s *Service) Play(id string, pos domain.Position) (*GameState, error) {
	m, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	log := s.log.With().Str("game", id).Stringer("pos", pos).Logger()

	m.mu.Lock()
	defer m.mu.Unlock()

	mover := m.state.Game.Turn
	next, err := m.state.Game.Play(pos)
	if err != nil {
		log.Debug().Err(err).Msg("move rejected")
		cp := m.state
		return &cp, fmt.Errorf("play %s: %w", id, err)
	}
	m.state.Game = next
	m.state.Updated = s.now()
	cp := m.state

	log.Debug().
		Stringer("player", mover).
		Int("black", next.Black).
		Int("white", next.White).
		Msg("move applied")
	if next.Over() {
		log.Info().Stringer("result", next.Result).Int("moves", next.Moves).Msg("game over")
	}

	// Fan out while still holding the match lock so subscribers see
	// transitions in order.
	s.broadcast(id, cp)
	return &cp, nil
}

// Subscribe registers a subscriber for a match. The channel receives a
// snapshot after every transition and is closed when ctx is done, when
// unsubscribe is called, or when the subscriber falls behind.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan GameState, subscriberBuffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.removeSub(id, sub)
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) lookup(id string) (*match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.games[id]
	return m, ok
}

func (s *Service) broadcast(id string, gs GameState) {
	var toDrop []*subscriber
	for sub := range s.copySubs(id) {
		if !sub.send(gs) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	for _, sub := range toDrop {
		s.removeSub(id, sub)
	}
	if len(toDrop) > 0 {
		s.log.Warn().Str("game", id).Int("dropped", len(toDrop)).Msg("dropped slow subscribers")
	}
}

func (s *Service) copySubs(id string) map[*subscriber]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[*subscriber]struct{}, len(s.subs[id]))
	for k := range s.subs[id] {
		out[k] = struct{}{}
	}
	return out
}

func (s *Service) removeSub(id string, sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.subs[id]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(s.subs, id)
		}
	}
}
