package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"campaign-mailer/shared/logger"
)

const (
	maxRetries     = 3
	retryBackoff   = 2 // exponential base: 2s, 4s between attempts
	requestTimeout = 30 * time.Second
)

// ErrMaxRetries is returned when every attempt of one request has failed
var ErrMaxRetries = errors.New("max retries exceeded")

// Sender performs an outbound provider API call
type Sender interface {
	Post(url string, payload interface{}, headers map[string]string) error
}

// retryingSender implements Sender with bounded retries and exponential
// backoff
type retryingSender struct {
	client *http.Client
	sleep  func(time.Duration)
}

// NewSender creates a sender with the fixed request timeout and real sleeps
func NewSender() Sender {
	return &retryingSender{
		client: &http.Client{Timeout: requestTimeout},
		sleep:  time.Sleep,
	}
}

// Post sends payload as JSON. Status 200/201/202 is success; any other
// status or transport error counts as a failed attempt. Up to maxRetries
// attempts are made, sleeping retryBackoff^attempt seconds between them
// (never after the last).
func (s *retryingSender) Post(url string, payload interface{}, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := s.attempt(url, body, headers); err != nil {
			logger.Errorf("Attempt %d failed: %v", attempt, err)
		} else {
			return nil
		}

		if attempt < maxRetries {
			sleepTime := time.Duration(math.Pow(retryBackoff, float64(attempt))) * time.Second
			logger.Infof("Retrying in %s...", sleepTime)
			s.sleep(sleepTime)
		}
	}

	return ErrMaxRetries
}

// attempt performs one POST and classifies the response
func (s *retryingSender) attempt(url string, body []byte, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
}
