package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyService serves /ping and /users while healthy and errors on
// everything once tripped.
type flakyService struct {
	srv     *httptest.Server
	healthy atomic.Bool
	hits    atomic.Int64
}

func newFlakyService(t *testing.T) *flakyService {
	t.Helper()

	f := &flakyService{}
	f.healthy.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		if !f.healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, pingResponse{Sessions: 1})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if !f.healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, User{ID: 42, PlayerName: "Freeman"})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func TestProbe_CheckNow(t *testing.T) {
	f := newFlakyService(t)
	c := NewClient(f.srv.URL)
	p := NewProbe(c)

	assert.False(t, p.IsAlive(), "probe starts pessimistic")

	assert.True(t, p.CheckNow(context.Background()))
	assert.True(t, p.IsAlive())

	f.healthy.Store(false)
	assert.False(t, p.CheckNow(context.Background()))
	assert.False(t, p.IsAlive())
}

func TestProbe_OnChangeFiresOnFlips(t *testing.T) {
	f := newFlakyService(t)
	c := NewClient(f.srv.URL)
	p := NewProbe(c)

	var flips []bool
	p.OnChange(func(alive bool) {
		flips = append(flips, alive)
	})

	p.CheckNow(context.Background())
	p.CheckNow(context.Background())
	f.healthy.Store(false)
	p.CheckNow(context.Background())

	assert.Equal(t, []bool{true, false}, flips, "callback fires only when the state changes")
}

func TestProbe_FailedCallTripsProbe(t *testing.T) {
	f := newFlakyService(t)
	c := NewClient(f.srv.URL)
	p := NewProbe(c)
	require.True(t, p.CheckNow(context.Background()))

	f.healthy.Store(false)
	_, err := c.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrUpstream)

	assert.Eventually(t, func() bool { return !p.IsAlive() },
		2*time.Second, 10*time.Millisecond,
		"a failed call should schedule a re-check that marks the service down")

	// Once down, further lookups are refused without touching the wire.
	before := f.hits.Load()
	_, err = c.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, before, f.hits.Load())
}

func TestProbe_RunChecksUntilCanceled(t *testing.T) {
	f := newFlakyService(t)
	c := NewClient(f.srv.URL)
	p := NewProbe(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	assert.Eventually(t, p.IsAlive, 2*time.Second, 10*time.Millisecond,
		"the first check fires immediately")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not stop after cancel")
	}
}
