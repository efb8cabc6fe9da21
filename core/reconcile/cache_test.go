package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"class-sync/core/destination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseCache_HitsAndMissesAreCached(t *testing.T) {
	store := newMemStore()
	id := store.seed(plannerID, destination.Properties{"Canvas Course Name": destination.RichText("Biology")})
	cache := NewCourseCache(store, plannerID, destination.CoursePlannerSchema())
	ctx := context.Background()

	got, err := cache.Resolve(ctx, "Biology")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = cache.Resolve(ctx, "Chemistry")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	before := store.queries.Load()
	for i := 0; i < 3; i++ {
		got, err = cache.Resolve(ctx, "Biology")
		require.NoError(t, err)
		assert.Equal(t, id, got)
		_, err = cache.Resolve(ctx, "Chemistry")
		assert.ErrorIs(t, err, ErrCourseNotFound)
	}
	assert.Equal(t, before, store.queries.Load())
}

func TestCourseCache_ErrorsAreNotCached(t *testing.T) {
	store := newMemStore()
	id := store.seed(plannerID, destination.Properties{"Canvas Course Name": destination.RichText("Biology")})
	cache := NewCourseCache(store, plannerID, destination.CoursePlannerSchema())
	ctx := context.Background()

	store.failQuery[plannerID] = errors.New("timeout")
	_, err := cache.Resolve(ctx, "Biology")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCourseNotFound)

	delete(store.failQuery, plannerID)
	got, err := cache.Resolve(ctx, "Biology")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestCourseCache_Unconfigured(t *testing.T) {
	ctx := context.Background()

	var nilCache *CourseCache
	_, err := nilCache.Resolve(ctx, "Biology")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	store := newMemStore()
	_, err = NewCourseCache(store, "", destination.CoursePlannerSchema()).Resolve(ctx, "Biology")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = NewCourseCache(store, plannerID, destination.CoursePlannerSchema()).Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Zero(t, store.queries.Load())
}

// slowStore delays queries so concurrent lookups overlap.
type slowStore struct {
	*memStore
	delay time.Duration
}

func (s slowStore) Query(ctx context.Context, collection string, f destination.Filter) ([]destination.Page, error) {
	time.Sleep(s.delay)
	return s.memStore.Query(ctx, collection, f)
}

func TestCourseCache_ConcurrentLookupsShareQuery(t *testing.T) {
	store := newMemStore()
	id := store.seed(plannerID, destination.Properties{"Canvas Course Name": destination.RichText("Biology")})
	cache := NewCourseCache(slowStore{memStore: store, delay: 50 * time.Millisecond}, plannerID, destination.CoursePlannerSchema())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Resolve(context.Background(), "Biology")
			assert.NoError(t, err)
			assert.Equal(t, id, got)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, store.queries.Load(), int64(2))
}

func TestKeyedMutex(t *testing.T) {
	locks := NewKeyedMutex()

	var inside atomic.Int32
	var maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("assignments/42")
			defer unlock()
			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, locks.Len())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	locks := NewKeyedMutex()
	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	assert.Equal(t, 1, locks.Len())
}
