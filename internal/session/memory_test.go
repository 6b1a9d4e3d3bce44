package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ussd_lms/internal/menu"
	"ussd_lms/pkg"
)

func TestGetOrCreateStartsAtMain(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)

	s, err := store.GetOrCreate(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, menu.StateMain, s.State)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)
	ctx := context.Background()

	s, err := store.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	s.State = menu.StateBrowseGrades
	s.Subject = "Science"
	require.NoError(t, store.Save(ctx, s))

	got, err := store.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, menu.StateBrowseGrades, got.State)
	assert.Equal(t, "Science", got.Subject)
}

func TestSaveReplacesWholeValue(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)
	ctx := context.Background()

	s, _ := store.GetOrCreate(ctx, "abc")
	s.Resources = []pkg.Resource{{ID: "r1", Title: "One"}}
	require.NoError(t, store.Save(ctx, s))

	s.Resources = nil
	s.State = menu.StateHelp
	require.NoError(t, store.Save(ctx, s))

	got, _ := store.GetOrCreate(ctx, "abc")
	assert.Empty(t, got.Resources)
	assert.Equal(t, menu.StateHelp, got.State)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)
	ctx := context.Background()

	_, _ = store.GetOrCreate(ctx, "abc")
	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestSweepExpiredRemovesIdleSessions(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)
	ctx := context.Background()

	base := time.Now()
	store.clock = func() time.Time { return base }

	_, _ = store.GetOrCreate(ctx, "stale")
	s, _ := store.GetOrCreate(ctx, "stale")
	require.NoError(t, store.Save(ctx, s))

	store.clock = func() time.Time { return base.Add(90 * time.Second) }
	fresh, _ := store.GetOrCreate(ctx, "fresh")
	require.NoError(t, store.Save(ctx, fresh))

	removed, err := store.SweepExpired(ctx, base.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	// The swept id comes back as a brand-new session.
	again, err := store.GetOrCreate(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, menu.StateMain, again.State)
	assert.Empty(t, again.Subject)
}

func TestListReturnsAllSessions(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = store.GetOrCreate(ctx, fmt.Sprintf("s%d", i))
	}

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 4)
}

func TestDistinctSessionsDoNotLeak(t *testing.T) {
	store := NewMemoryStore(2 * time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			subject := fmt.Sprintf("Subject %d", i)
			for j := 0; j < 50; j++ {
				s, err := store.GetOrCreate(ctx, id)
				if err != nil {
					t.Error(err)
					return
				}
				if s.Subject != "" && s.Subject != subject {
					t.Errorf("session %s observed foreign subject %q", id, s.Subject)
					return
				}
				s.Subject = subject
				if err := store.Save(ctx, s); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 32)
}

func TestKeyedMutexSerializesSameID(t *testing.T) {
	var locks KeyedMutex
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("same-id")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}
