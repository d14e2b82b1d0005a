package refcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
)

type fakeLoader struct {
	calls   int32
	release chan struct{}
	fail    atomic.Bool
}

func (f *fakeLoader) PossibleValues(ctx context.Context, category query.Category) ([]models.ReferenceEntry, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		<-f.release
	}
	if f.fail.Load() {
		return nil, &api.Error{Op: api.CategoryOp(category), Status: 503, Err: errors.New("unavailable")}
	}
	return []models.ReferenceEntry{{Name: string(category) + "-1"}, {Name: string(category) + "-2"}}, nil
}

func TestConcurrentGetSharesOneCall(t *testing.T) {
	loader := &fakeLoader{release: make(chan struct{})}
	cache := New(loader)

	var wg sync.WaitGroup
	results := make([][]models.ReferenceEntry, 2)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := cache.Get(context.Background(), query.Genres)
			assert.NoError(t, err)
			results[i] = entries
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&loader.calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls))
	assert.Equal(t, results[0], results[1])
	assert.Len(t, results[0], 2)

	_, err := cache.Get(context.Background(), query.Genres)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls))
}

func TestFailuresAreNotCached(t *testing.T) {
	loader := &fakeLoader{}
	loader.fail.Store(true)
	cache := New(loader)

	_, err := cache.Get(context.Background(), query.Countries)
	require.Error(t, err)
	op, ok := api.OpOf(err)
	require.True(t, ok)
	assert.Equal(t, api.OpCountries, op)

	_, cached := cache.Cached(query.Countries)
	assert.False(t, cached)

	loader.fail.Store(false)
	entries, err := cache.Get(context.Background(), query.Countries)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loader.calls))
	assert.Equal(t, []string{"countries-1", "countries-2"}, cache.Names(query.Countries))
}

func TestUnknownCategory(t *testing.T) {
	loader := &fakeLoader{}
	cache := New(loader)

	_, err := cache.Get(context.Background(), query.Category("studios"))
	assert.True(t, errors.Is(err, api.ErrUnknownCategory))
	assert.Zero(t, atomic.LoadInt32(&loader.calls))
}

func TestCallerCancellationDoesNotAbortLoad(t *testing.T) {
	loader := &fakeLoader{release: make(chan struct{})}
	cache := New(loader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, query.Types)
		done <- err
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&loader.calls) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))

	close(loader.release)
	require.Eventually(t, func() bool {
		_, ok := cache.Cached(query.Types)
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestPrefetch(t *testing.T) {
	loader := &fakeLoader{}
	cache := New(loader)

	failures := cache.Prefetch(context.Background())
	assert.Empty(t, failures)
	assert.Equal(t, int32(len(query.Categories)), atomic.LoadInt32(&loader.calls))
	for _, c := range query.Categories {
		_, ok := cache.Cached(c)
		assert.True(t, ok, c)
	}
}
