package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	s := NewService()

	gs, err := s.CreateGame()
	require.NoError(t, err)

	assert.NotEmpty(t, gs.ID)
	assert.Equal(t, domain.Black, gs.Game.Turn)
	assert.Equal(t, domain.NewBoard(), gs.Game.Board)
	assert.False(t, gs.Created.IsZero())
	assert.False(t, gs.Updated.IsZero())

	got, ok := s.Get(gs.ID)
	require.True(t, ok)
	assert.Equal(t, gs.ID, got.ID)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestCreateGamesAreIndependent(t *testing.T) {
	s := NewService()
	a, _ := s.CreateGame()
	b, _ := s.CreateGame()
	require.NotEqual(t, a.ID, b.ID)

	_, err := s.Play(a.ID, domain.Position{Row: 2, Col: 3})
	require.NoError(t, err)

	other, _ := s.Get(b.ID)
	assert.Equal(t, 0, other.Game.Moves)
}

func TestPlayAppliesMove(t *testing.T) {
	// Given: a fresh match
	s := NewService()
	gs, _ := s.CreateGame()

	// When: Black plays (2,3)
	st, err := s.Play(gs.ID, domain.Position{Row: 2, Col: 3})

	// Then: the move is recorded and White is to move
	require.NoError(t, err)
	assert.Equal(t, 1, st.Game.Moves)
	assert.Equal(t, domain.White, st.Game.Turn)
	assert.Equal(t, 4, st.Game.Black)
	assert.Equal(t, 1, st.Game.White)

	latest, _ := s.Get(gs.ID)
	assert.Equal(t, st.Game, latest.Game)
}

func TestPlayRejectionReturnsUnchangedState(t *testing.T) {
	s := NewService()
	gs, _ := s.CreateGame()

	st, err := s.Play(gs.ID, domain.Position{Row: 0, Col: 0})

	require.ErrorIs(t, err, domain.ErrIllegalMove)
	require.NotNil(t, st)
	assert.Equal(t, gs.Game, st.Game)
}

func TestPlayUnknownGame(t *testing.T) {
	s := NewService()

	st, err := s.Play("nope", domain.Position{Row: 2, Col: 3})

	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, st)
}

func TestWithRulesAppliesToNewGames(t *testing.T) {
	s := NewService(WithRules(domain.WithAutoPass()))
	gs, _ := s.CreateGame()

	// A fresh game with auto-pass equals one built directly with the option.
	assert.Equal(t, domain.New(domain.WithAutoPass()), gs.Game)
}

func TestConcurrentPlaysAreSerialized(t *testing.T) {
	// Given: many callers racing for the same opening move
	s := NewService()
	gs, _ := s.CreateGame()

	const callers = 16
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Play(gs.ID, domain.Position{Row: 2, Col: 3}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Then: exactly one of them wins and the state reflects a single move
	assert.Equal(t, 1, ok)
	latest, _ := s.Get(gs.ID)
	assert.Equal(t, 1, latest.Game.Moves)
	assert.Equal(t, latest.Game.Board.Count(domain.Black), latest.Game.Black)
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s := NewService()
	gs, _ := s.CreateGame()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ch, unsub, err := s.Subscribe(ctx, gs.ID)
	require.NoError(t, err)
	defer unsub()

	_, err = s.Play(gs.ID, domain.Position{Row: 2, Col: 3})
	require.NoError(t, err)

	select {
	case st, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		assert.Equal(t, gs.ID, st.ID)
		assert.Equal(t, 1, st.Game.Moves)
	case <-ctx.Done():
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestRejectedMoveIsNotBroadcast(t *testing.T) {
	s := NewService()
	gs, _ := s.CreateGame()
	ch, unsub, err := s.Subscribe(context.Background(), gs.ID)
	require.NoError(t, err)
	defer unsub()

	_, err = s.Play(gs.ID, domain.Position{Row: 3, Col: 3})
	require.ErrorIs(t, err, domain.ErrOccupied)

	select {
	case st := <-ch:
		t.Fatalf("unexpected broadcast after rejection: moves=%d", st.Game.Moves)
	default:
	}
}

func TestSubscribeUnknownGame(t *testing.T) {
	s := NewService()

	_, _, err := s.Subscribe(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	s := NewService()
	gs, _ := s.CreateGame()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := s.Subscribe(ctx, gs.ID)
	require.NoError(t, err)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestDropSlowSubscriber(t *testing.T) {
	// Given: one subscriber that never reads and one that keeps up
	s := NewService(WithRules(domain.WithAutoPass()))
	gs, _ := s.CreateGame()

	slowCh, _, err := s.Subscribe(context.Background(), gs.ID)
	require.NoError(t, err)
	fastCh, unsubFast, err := s.Subscribe(context.Background(), gs.ID)
	require.NoError(t, err)
	defer unsubFast()

	// When: more transitions happen than the slow buffer can hold
	for i := 0; i < subscriberBuffer+1; i++ {
		cur, _ := s.Get(gs.ID)
		require.NotEmpty(t, cur.Game.Legal)
		_, err := s.Play(gs.ID, cur.Game.Legal[0])
		require.NoError(t, err)

		st, ok := <-fastCh
		require.True(t, ok, "fast subscriber dropped at move %d", i+1)
		assert.Equal(t, i+1, st.Game.Moves)
	}

	// Then: the slow subscriber got what fit in its buffer and was closed
	got := 0
	for range slowCh {
		got++
	}
	assert.Equal(t, subscriberBuffer, got)
}
