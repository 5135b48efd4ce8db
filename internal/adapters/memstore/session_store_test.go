package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	now := testutil.TestTime()
	store := New().WithClock(testutil.FixedTimeFunc(now))

	sess := testutil.NewSession().WithID("s1").WithUser("bob").ExpiringAt(now.Add(time.Hour)).Build()
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, apperrors.IsNotFound(err))

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_Validation(t *testing.T) {
	ctx := context.Background()
	now := testutil.TestTime()
	store := New().WithClock(testutil.FixedTimeFunc(now))

	assert.Error(t, store.Save(ctx, domainauth.Session{}))
	assert.Error(t, store.Save(ctx, testutil.NewSession().WithID("old").ExpiringAt(now.Add(-time.Second)).Build()))

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_ExpiryOnGetAndSweep(t *testing.T) {
	ctx := context.Background()
	tp := testutil.NewTestTimeProvider(testutil.TestTime())
	store := New().WithClock(tp.Now)

	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("short").ExpiringAt(tp.Now().Add(time.Minute)).Build()))
	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("long").ExpiringAt(tp.Now().Add(time.Hour)).Build()))
	require.NoError(t, store.Save(ctx, testutil.NewSession().WithID("forever").ExpiringAt(time.Time{}).Build()))

	tp.AddTime(2 * time.Minute)
	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, store.Len())

	tp.AddTime(2 * time.Hour)
	assert.Equal(t, 1, store.Sweep())
	_, err = store.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestSessionStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			sess := testutil.NewSession().WithID(id).ExpiringAt(time.Now().Add(time.Hour)).Build()
			assert.NoError(t, store.Save(ctx, sess))
			_, err := store.Get(ctx, id)
			assert.NoError(t, err)
			assert.NoError(t, store.Delete(ctx, id))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_RunSweeperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().RunSweeper(ctx, 10*time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
