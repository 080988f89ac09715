package metrics_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riftforge/taskpool"
	"github.com/riftforge/taskpool/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountersAndHandler(t *testing.T) {
	r := metrics.NewRecorder()

	r.RecordSubmitted()
	r.RecordSubmitted()
	r.RecordRejected()
	r.RecordCompleted()
	r.SetGauges(3, 7)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	buf := make([]byte, 64*1024)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])

	assert.True(t, strings.Contains(body, "taskpool_tasks_submitted_total 2"))
	assert.True(t, strings.Contains(body, "taskpool_tasks_rejected_total 1"))
	assert.True(t, strings.Contains(body, "taskpool_tasks_completed_total 1"))
	assert.True(t, strings.Contains(body, "taskpool_tasks_running 3"))
	assert.True(t, strings.Contains(body, "taskpool_tasks_queued 7"))
}

func TestRecorderPollPool(t *testing.T) {
	p := taskpool.New(2)
	defer p.Destroy(false)

	r := metrics.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	block := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-block }))

	go r.PollPool(ctx, p, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		srv := httptest.NewServer(r.Handler())
		defer srv.Close()
		resp, err := srv.Client().Get(srv.URL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		buf := make([]byte, 64*1024)
		n, _ := resp.Body.Read(buf)
		return strings.Contains(string(buf[:n]), "taskpool_tasks_running 1")
	}, time.Second, 10*time.Millisecond)

	close(block)
}
