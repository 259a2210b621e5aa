package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestMiddlewaresStacks ensures we get the public, gated and ops
// middlewares stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), newTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("mock", true), nil)
	pub, gated, ops := api.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 8, len(*gated))
	assert.Equal(t, 5, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/livros", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), newTestConfig(), &Statistics{started: time.Now(), called: 0}, NewMockClocker(), NewMockUIDHandler("mock", true), nil)
	req := httptest.NewRequest("GET", "/livros", nil)
	w := httptest.NewRecorder()
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.RequestsCounterMiddleware(handler)
	wrapped(w, req, nil)
	assert.Equal(t, true, called)
	assert.Equal(t, uint64(1), api.stats.called)
}

// TestBasicAuthMiddleware ensures the credentials gate only lets the
// configured admin pair through, whatever the request payload looks
// like, and sends the basic challenge back on every rejection.
func TestBasicAuthMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), newTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("mock", true), nil)
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	}
	wrapped := api.BasicAuthMiddleware(handler)

	testCases := []struct {
		name     string
		username string
		password string
		creds    bool
		status   int
		reached  bool
	}{
		{name: "no credentials", creds: false, status: http.StatusUnauthorized, reached: false},
		{name: "wrong username", username: "nobody", password: "secret", creds: true, status: http.StatusUnauthorized, reached: false},
		{name: "wrong password", username: "admin", password: "wrong", creds: true, status: http.StatusUnauthorized, reached: false},
		{name: "both wrong", username: "nobody", password: "wrong", creds: true, status: http.StatusUnauthorized, reached: false},
		{name: "valid credentials", username: "admin", password: "secret", creds: true, status: http.StatusOK, reached: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodPost, "/livros", nil)
			if tc.creds {
				req.SetBasicAuth(tc.username, tc.password)
			}
			w := httptest.NewRecorder()
			wrapped(w, req, nil)
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)
			assert.Equal(t, tc.reached, called)
			if !tc.reached {
				assert.Equal(t, `Basic realm="livros admin"`, res.Header.Get("WWW-Authenticate"))
			}
		})
	}
}

// TestMaintenanceModeMiddleware ensures public traffic is short-circuited
// with 503 while the maintenance mode is on.
func TestMaintenanceModeMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), newTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("mock", true), nil)
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	}
	wrapped := api.MaintenanceModeMiddleware(handler)

	api.mode.enabled.Store(true)
	req := httptest.NewRequest("GET", "/livros", nil)
	w := httptest.NewRecorder()
	wrapped(w, req, nil)
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.False(t, called)

	api.mode.enabled.Store(false)
	w = httptest.NewRecorder()
	wrapped(w, req, nil)
	res = w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, called)
}

// TestStatsMiddleware ensures the per-status counters record the codes
// produced by the wrapped handlers.
func TestStatsMiddleware(t *testing.T) {
	api := NewAPIHandler(zap.NewNop(), newTestConfig(), &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("mock", true), nil)
	wrapped := api.StatsMiddleware(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusNotFound)
	})
	req := httptest.NewRequest("GET", "/livros/unknown", nil)
	wrapped(httptest.NewRecorder(), req, nil)
	wrapped(httptest.NewRecorder(), req, nil)

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(2), api.stats.status[http.StatusNotFound])
}
