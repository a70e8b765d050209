package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

type countingHandler struct {
	mu       sync.Mutex
	times    []time.Time
	statuses []int // status per attempt; last entry repeats
	body     string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.times = append(h.times, time.Now())
	n := len(h.times)
	h.mu.Unlock()

	status := h.statuses[min(n, len(h.statuses))-1]
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte(h.body))
	}
}

func (h *countingHandler) requests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.times)
}

func (h *countingHandler) gaps() []time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	var gaps []time.Duration
	for i := 1; i < len(h.times); i++ {
		gaps = append(gaps, h.times[i].Sub(h.times[i-1]))
	}
	return gaps
}

func newTestFetcher(minInterval time.Duration, maxRetries int, backoff []time.Duration) *resilientFetcher {
	return &resilientFetcher{
		rl:         newLimiter(minInterval),
		httpClient: resty.New().SetTimeout(5 * time.Second).SetRetryCount(0),
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func TestFetch_SuccessFirstAttempt(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusOK}, body: "<html>ok</html>"}
	srv := httptest.NewServer(h)
	defer srv.Close()

	f := newTestFetcher(0, 3, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond})

	start := time.Now()
	content, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", content)
	assert.Equal(t, 1, h.requests())
	assert.Less(t, time.Since(start), 50*time.Millisecond, "no backoff wait on immediate success")
}

func TestFetch_PacingBetweenRequests(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusOK}, body: "ok"}
	srv := httptest.NewServer(h)
	defer srv.Close()

	const interval = 100 * time.Millisecond
	f := newTestFetcher(interval, 3, nil)

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	gaps := h.gaps()
	require.Len(t, gaps, 2)
	for _, gap := range gaps {
		// small tolerance for clock skew between limiter and handler
		assert.GreaterOrEqual(t, gap, interval-10*time.Millisecond)
	}
}

func TestFetch_PacingAppliesAcrossRetries(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusTooManyRequests, http.StatusOK}, body: "ok"}
	srv := httptest.NewServer(h)
	defer srv.Close()

	const interval = 80 * time.Millisecond
	f := newTestFetcher(interval, 3, []time.Duration{time.Millisecond, time.Millisecond})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	gaps := h.gaps()
	require.Len(t, gaps, 1)
	assert.GreaterOrEqual(t, gaps[0], interval-10*time.Millisecond)
}

func TestFetch_RetriesRateLimitThenSucceeds(t *testing.T) {
	// 429 on the first two attempts, 200 on the third
	h := &countingHandler{
		statuses: []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK},
		body:     "recovered",
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	backoff := []time.Duration{30 * time.Millisecond, 60 * time.Millisecond}
	f := newTestFetcher(0, 3, backoff)

	start := time.Now()
	content, err := f.Fetch(context.Background(), srv.URL)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "recovered", content)
	assert.Equal(t, 3, h.requests())
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond, "both scheduled backoff waits applied")
}

func TestFetch_BlockedExhaustsRetries(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusForbidden}}
	srv := httptest.NewServer(h)
	defer srv.Close()

	f := newTestFetcher(0, 3, []time.Duration{time.Millisecond, time.Millisecond})

	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.Equal(t, 3, h.requests(), "never more attempts than the configured maximum")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.Equal(t, 3, fe.Attempts)
}

func TestFetch_ServerErrorExhaustsRetries(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusBadGateway}}
	srv := httptest.NewServer(h)
	defer srv.Close()

	f := newTestFetcher(0, 2, []time.Duration{time.Millisecond})

	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.Equal(t, 2, h.requests())
}

func TestFetch_ClientErrorFailsImmediately(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusNotFound}}
	srv := httptest.NewServer(h)
	defer srv.Close()

	f := newTestFetcher(0, 3, []time.Duration{time.Millisecond, time.Millisecond})

	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.Equal(t, 1, h.requests(), "no retry for non-recoverable 4xx")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, 1, fe.Attempts)
}

func TestFetch_NetworkErrorIsRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	f := newTestFetcher(0, 2, []time.Duration{time.Millisecond})

	_, err := f.Fetch(context.Background(), url)

	require.Error(t, err)
	assert.True(t, IsExhausted(err))

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.StatusCode)
	assert.Error(t, fe.Err)
}

func TestFetch_DeterministicOutcomeAcrossCalls(t *testing.T) {
	// Retry logic holds no hidden cross-call state beyond the pacing
	// clock: the same deterministic upstream yields the same classified
	// outcome every time.
	h := &countingHandler{statuses: []int{http.StatusForbidden}}
	srv := httptest.NewServer(h)
	defer srv.Close()

	f := newTestFetcher(0, 2, []time.Duration{time.Millisecond})

	_, err1 := f.Fetch(context.Background(), srv.URL)
	_, err2 := f.Fetch(context.Background(), srv.URL)

	assert.True(t, IsExhausted(err1))
	assert.True(t, IsExhausted(err2))
	assert.Equal(t, 4, h.requests())
}

func TestFetch_ContextCancelledDuringBackoff(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusTooManyRequests}}
	srv := httptest.NewServer(h)
	defer srv.Close()

	f := newTestFetcher(0, 3, []time.Duration{time.Second, time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := f.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "does not sit out the full backoff")
	assert.Equal(t, 1, h.requests())
}

type fakeSupplier struct {
	mu    sync.Mutex
	calls int
}

func (s *fakeSupplier) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return ""
}

func TestFetch_BlockResponseAsksForFreshProxy(t *testing.T) {
	h := &countingHandler{statuses: []int{http.StatusForbidden, http.StatusOK}, body: "ok"}
	srv := httptest.NewServer(h)
	defer srv.Close()

	supplier := &fakeSupplier{}
	f := newTestFetcher(0, 3, []time.Duration{time.Millisecond, time.Millisecond})
	f.proxies = supplier

	_, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	supplier.mu.Lock()
	defer supplier.mu.Unlock()
	assert.Equal(t, 1, supplier.calls)
}
