package faucet

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xescure/keecli/pkg/types"
)

// sample is one scripted balance read: either a value or an error.
type sample struct {
	balance int64
	err     error
}

// scriptedLedger replays a fixed sequence of balance samples. The last
// sample repeats once the script runs out.
type scriptedLedger struct {
	samples []sample
	reads   int
}

func (l *scriptedLedger) BaseToken() string { return "KTA" }

func (l *scriptedLedger) Balance(ctx context.Context, acct, token string) (*big.Int, error) {
	i := l.reads
	if i >= len(l.samples) {
		i = len(l.samples) - 1
	}
	l.reads++
	s := l.samples[i]
	if s.err != nil {
		return nil, s.err
	}
	return big.NewInt(s.balance), nil
}

func newTestClient(t *testing.T, status int) (*Client, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "10", r.PostForm.Get("amount"))
		assert.NotEmpty(t, r.PostForm.Get("address"))
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, zerolog.Nop())
	client.Interval = time.Millisecond
	return client, &requests
}

func TestRequestAndWaitReportsDelta(t *testing.T) {
	client, requests := newTestClient(t, http.StatusOK)
	ledger := &scriptedLedger{samples: []sample{
		{balance: 100}, // initial
		{balance: 100},
		{balance: 100},
		{balance: 115},
	}}

	received, err := client.RequestAndWait(context.Background(), ledger, "keeta_me")
	require.NoError(t, err)

	assert.Equal(t, int64(15), received.Int64())
	assert.Equal(t, 4, ledger.reads, "initial sample plus exactly 3 polling ticks")
	assert.Equal(t, 1, *requests)
}

func TestRequestAndWaitTimesOut(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK)
	client.MaxAttempts = 5
	ledger := &scriptedLedger{samples: []sample{{balance: 100}}}

	_, err := client.RequestAndWait(context.Background(), ledger, "keeta_me")
	assert.ErrorIs(t, err, types.ErrTimedOut)
	assert.Equal(t, 1+5, ledger.reads, "exactly MaxAttempts polling samples after the baseline")
}

func TestRequestAndWaitSwallowsSampleErrors(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK)
	ledger := &scriptedLedger{samples: []sample{
		{balance: 100},
		{err: errors.New("node hiccup")},
		{balance: 100},
		{balance: 115},
	}}

	received, err := client.RequestAndWait(context.Background(), ledger, "keeta_me")
	require.NoError(t, err, "a failed sample mid-poll must not end the wait")
	assert.Equal(t, int64(15), received.Int64())
}

func TestRequestAndWaitBaselineFailureAborts(t *testing.T) {
	client, requests := newTestClient(t, http.StatusOK)
	ledger := &scriptedLedger{samples: []sample{{err: errors.New("node down")}}}

	_, err := client.RequestAndWait(context.Background(), ledger, "keeta_me")
	assert.ErrorIs(t, err, types.ErrRequest)
	assert.Equal(t, 0, *requests, "no funding request without a baseline balance")
}

func TestRequestAndWaitFaucetRejection(t *testing.T) {
	client, _ := newTestClient(t, http.StatusServiceUnavailable)
	ledger := &scriptedLedger{samples: []sample{{balance: 100}}}

	_, err := client.RequestAndWait(context.Background(), ledger, "keeta_me")
	assert.ErrorIs(t, err, types.ErrRequest)
	assert.Equal(t, 1, ledger.reads, "polling must not start after a failed request")
}

func TestRequestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, zerolog.Nop())
	err := client.Request(context.Background(), "keeta_me")
	assert.ErrorIs(t, err, types.ErrRequest)
}

func TestRequestAndWaitCancellable(t *testing.T) {
	requested := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(requested)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, zerolog.Nop())
	client.Interval = time.Hour
	ledger := &scriptedLedger{samples: []sample{{balance: 100}}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.RequestAndWait(ctx, ledger, "keeta_me")
		done <- err
	}()

	// Cancel only once the poll loop is the thing blocking.
	<-requested
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop did not observe cancellation")
	}
}

func TestDefaults(t *testing.T) {
	client := New("", zerolog.Nop())
	assert.Equal(t, DefaultURL, client.URL)
	assert.Equal(t, int64(10), client.Amount)
	assert.Equal(t, 2*time.Second, client.Interval)
	assert.Equal(t, 30, client.MaxAttempts)
}
