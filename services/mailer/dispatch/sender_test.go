package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSender returns a sender with recorded, non-blocking sleeps
func newTestSender(sleeps *[]time.Duration) *retryingSender {
	return &retryingSender{
		client: &http.Client{Timeout: requestTimeout},
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	}
}

func TestSenderSucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		assert.Equal(t, "Zoho-enczapikey test-key", r.Header.Get("authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	sender := newTestSender(&sleeps)

	err := sender.Post(srv.URL, map[string]string{"k": "v"}, map[string]string{
		"content-type":  "application/json",
		"authorization": "Zoho-enczapikey test-key",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, sleeps)
}

func TestSenderRecoversWithinRetryLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	sender := newTestSender(&sleeps)

	err := sender.Post(srv.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeps)
}

func TestSenderExhaustsRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	sender := newTestSender(&sleeps)

	err := sender.Post(srv.URL, nil, nil)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeps)
}

func TestSenderRetriesTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	var sleeps []time.Duration
	sender := newTestSender(&sleeps)

	err := sender.Post(srv.URL, nil, nil)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Len(t, sleeps, 2)
}

func TestSenderAcceptedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		var sleeps []time.Duration
		sender := newTestSender(&sleeps)

		err := sender.Post(srv.URL, nil, nil)
		assert.NoError(t, err, "status %d should be accepted", status)
		srv.Close()
	}
}
