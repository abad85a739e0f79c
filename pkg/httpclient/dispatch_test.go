package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	res, err := Fetch(Request{Verb: "GET", URL: srv.URL, Query: map[string]string{"foo": "bar"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, res.Status)
	assert.Equal(t, "ok", res.Response)
	assert.True(t, res.Duration >= 0)
}

func TestFetchUnsupportedVerb(t *testing.T) {
	_, err := Fetch(Request{Verb: "TRACE", URL: "http://example.invalid"})
	assert.Error(t, err)
}

func TestDispatcherRunAllCorrelatesByLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	d := NewDispatcher(4)
	tasks := []Task{
		{Label: "one", Request: Request{Verb: "GET", URL: srv.URL + "/one"}},
		{Label: "two", Request: Request{Verb: "GET", URL: srv.URL + "/two"}},
	}
	results := d.RunAll(context.Background(), tasks)
	require.Len(t, results, 2)

	byLabel := map[string]TaskResult{}
	for _, r := range results {
		byLabel[r.Label] = r
	}
	require.NoError(t, byLabel["one"].Err)
	require.NoError(t, byLabel["two"].Err)
	assert.Equal(t, "/one", byLabel["one"].Result.Response)
	assert.Equal(t, "/two", byLabel["two"].Result.Response)
}

func TestDispatcherRunAllCapsConcurrency(t *testing.T) {
	var inFlight, maxSeen int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			seen := atomic.LoadInt32(&maxSeen)
			if cur <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, cur) {
				break
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(2)
	tasks := make([]Task, 0, 4)
	for i := 0; i < 4; i++ {
		tasks = append(tasks, Task{Label: srv.URL, Request: Request{Verb: "GET", URL: srv.URL}})
	}
	results := d.RunAll(context.Background(), tasks)
	require.Len(t, results, 4)
	assert.LessOrEqual(t, int(atomic.LoadInt32(&maxSeen)), 2)
}

func TestDispatcherRunAllEmpty(t *testing.T) {
	d := NewDispatcher(4)
	assert.Nil(t, d.RunAll(context.Background(), nil))
}

func TestNewDispatcherUnboundedWhenNonPositive(t *testing.T) {
	d := NewDispatcher(0)
	assert.Nil(t, d.limiter)
}
