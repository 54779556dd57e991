package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mystere-theatre/internal/catalog"
	"github.com/robalobadob/mystere-theatre/internal/game"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	v, err := catalog.Default()
	require.NoError(t, err)
	return game.New(v)
}

func TestMemory_SaveAndUpdate(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	require.NoError(t, st.Save(ctx, s))

	err := st.Update(ctx, s.ID, func(s *game.Session) error {
		_, err := s.SubmitAnswer("couloir", 0, "l")
		return err
	})
	require.NoError(t, err)

	var letters []string
	require.NoError(t, st.Update(ctx, s.ID, func(s *game.Session) error {
		letters = s.Letters()
		return nil
	}))
	assert.Equal(t, []string{"L"}, letters)
}

func TestMemory_UpdateUnknown(t *testing.T) {
	err := NewMemoryStore().Update(context.Background(), "nope", func(*game.Session) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdatePassesErrorThrough(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	require.NoError(t, st.Save(ctx, s))

	boom := errors.New("boom")
	assert.ErrorIs(t, st.Update(ctx, s.ID, func(*game.Session) error { return boom }), boom)
}

func TestMemory_ConcurrentEventsAreSerialised(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	require.NoError(t, st.Save(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Update(ctx, s.ID, func(s *game.Session) error {
				_, err := s.SubmitAnswer("regie", 0, "c")
				return err
			})
		}()
	}
	wg.Wait()

	var letters []string
	require.NoError(t, st.Update(ctx, s.ID, func(s *game.Session) error {
		letters = s.Letters()
		return nil
	}))
	assert.Equal(t, []string{"C"}, letters)
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	old := newSession(t)
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	fresh := newSession(t)
	require.NoError(t, st.Save(ctx, old))
	require.NoError(t, st.Save(ctx, fresh))

	assert.Equal(t, 1, st.Sweep(ctx, time.Now().Add(-24*time.Hour)))
	assert.Equal(t, 1, st.Len())
	assert.ErrorIs(t, st.Update(ctx, old.ID, func(*game.Session) error { return nil }), ErrNotFound)
}
