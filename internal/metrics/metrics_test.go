package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careerdeck/internal/poll"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePoll(t *testing.T) {
	c := New()
	c.ObservePoll("chat", poll.OutcomeSuccess, 10*time.Millisecond)
	c.ObservePoll("chat", poll.OutcomeSuccess, 10*time.Millisecond)
	c.ObservePoll("chat", poll.OutcomeStale, time.Millisecond)
	c.ObservePoll("code", poll.OutcomeSkipped, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.polls.WithLabelValues("chat", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.polls.WithLabelValues("chat", "stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.polls.WithLabelValues("code", "skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.pollDuration), "skipped ticks have no duration")
}

func TestObserveRequestAndWrite(t *testing.T) {
	c := New()
	c.ObserveRequest("GET", "/community/messages/general", 200, time.Millisecond)
	c.ObserveRequest("POST", "/community/messages", 0, time.Millisecond)
	c.ObserveWrite("message", true)
	c.ObserveWrite("message", false)
	c.ObserveWrite("message", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("POST", "0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.writes.WithLabelValues("message", "failed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.ObservePoll("growth", poll.OutcomeFailure, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `careerdeck_poll_ticks_total{outcome="failure",poller="growth"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
