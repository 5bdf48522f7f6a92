package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records calls and fails the configured 1-based call numbers
type fakeSender struct {
	calls     []sentCall
	failCalls map[int]bool
}

type sentCall struct {
	url     string
	payload interface{}
}

func (f *fakeSender) Post(url string, payload interface{}, headers map[string]string) error {
	f.calls = append(f.calls, sentCall{url: url, payload: payload})
	if f.failCalls[len(f.calls)] {
		return fmt.Errorf("send batch: %w", ErrMaxRetries)
	}
	return nil
}

// sliceSource serves a fixed set of rows
type sliceSource struct {
	rows []RawRecipientRow
	err  error
}

func (s *sliceSource) Load() ([]RawRecipientRow, error) {
	return s.rows, s.err
}

func makeRows(n int) []RawRecipientRow {
	rows := make([]RawRecipientRow, n)
	for i := range rows {
		rows[i] = RawRecipientRow{
			Email:    fmt.Sprintf("user%d@example.com", i),
			FullName: fmt.Sprintf("User %d", i),
		}
	}
	return rows
}

func testConfig() Config {
	return Config{
		APIKey:      "test-key",
		BaseURL:     "https://mail.test",
		TemplateKey: "tpl-123",
		FromAddress: "sender@example.com",
		BatchLimit:  500,
	}
}

func TestNewDispatcherRequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""

	sender := &fakeSender{}
	_, err := NewDispatcher(cfg, sender, &sliceSource{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, sender.calls)
}

func TestNewDispatcherDefaults(t *testing.T) {
	d, err := NewDispatcher(Config{APIKey: "k"}, &fakeSender{}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultBatchLimit, d.cfg.BatchLimit)
	assert.Equal(t, "https://api.zeptomail.com", d.cfg.BaseURL)
}

func TestSendSingle(t *testing.T) {
	sender := &fakeSender{}
	d, err := NewDispatcher(testConfig(), sender, nil)
	require.NoError(t, err)

	merge := MergeInfo{"team": "Acct Bank Team", "product_name": "Acct Bank"}
	require.NoError(t, d.SendSingle("jane.doe@example.com", merge))

	require.Len(t, sender.calls, 1)
	assert.Equal(t, "https://mail.test/v1.1/email/template", sender.calls[0].url)

	payload, ok := sender.calls[0].payload.(singlePayload)
	require.True(t, ok)
	assert.Equal(t, "tpl-123", payload.TemplateKey)
	assert.Equal(t, "sender@example.com", payload.From.Address)
	assert.Equal(t, "Acct Bank Team", payload.From.Name)
	require.Len(t, payload.To, 1)
	assert.Equal(t, "jane.doe@example.com", payload.To[0].EmailAddress.Address)
	assert.Equal(t, "jane.doe", payload.To[0].EmailAddress.Name)
	assert.Equal(t, merge, payload.MergeInfo)
}

func TestSendSinglePropagatesSenderFailure(t *testing.T) {
	sender := &fakeSender{failCalls: map[int]bool{1: true}}
	d, err := NewDispatcher(testConfig(), sender, nil)
	require.NoError(t, err)

	err = d.SendSingle("jane@example.com", MergeInfo{})
	assert.ErrorIs(t, err, ErrMaxRetries)
}

func TestSendBatchPartialFailure(t *testing.T) {
	// 1200 recipients at limit 500: chunk 2 always fails, 1 and 3 succeed
	sender := &fakeSender{failCalls: map[int]bool{2: true}}
	source := &sliceSource{rows: makeRows(1200)}

	d, err := NewDispatcher(testConfig(), sender, source)
	require.NoError(t, err)

	result, err := d.SendBatch(MergeInfo{"team": "Acct Bank Team"})
	require.NoError(t, err)

	assert.Equal(t, 1200, result.Total)
	assert.Equal(t, 700, result.Sent)
	assert.Equal(t, []int{2}, result.FailedBatches)
	assert.Len(t, sender.calls, 3)
}

func TestSendBatchAllBatchesFail(t *testing.T) {
	sender := &fakeSender{failCalls: map[int]bool{1: true, 2: true}}
	source := &sliceSource{rows: makeRows(600)}

	d, err := NewDispatcher(testConfig(), sender, source)
	require.NoError(t, err)

	// Still completes with a structured result, never an error
	result, err := d.SendBatch(MergeInfo{})
	require.NoError(t, err)
	assert.Equal(t, 600, result.Total)
	assert.Zero(t, result.Sent)
	assert.Equal(t, []int{1, 2}, result.FailedBatches)
}

func TestSendBatchEnvelopes(t *testing.T) {
	sender := &fakeSender{}
	source := &sliceSource{rows: makeRows(3)}

	cfg := testConfig()
	cfg.BatchLimit = 2
	d, err := NewDispatcher(cfg, sender, source)
	require.NoError(t, err)

	result, err := d.SendBatch(MergeInfo{"team": "Acct Bank Team"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Sent)

	require.Len(t, sender.calls, 2)
	assert.Equal(t, "https://mail.test/v1.1/email/template/batch", sender.calls[0].url)

	first, ok := sender.calls[0].payload.(batchPayload)
	require.True(t, ok)
	assert.Equal(t, "tpl-123", first.TemplateKey)
	assert.Equal(t, "Acct Bank Team", first.From.Name)
	require.Len(t, first.To, 2)
	assert.Equal(t, "user0@example.com", first.To[0].EmailAddress.Address)
	assert.Equal(t, "User 0", first.To[0].MergeInfo["name"])

	second, ok := sender.calls[1].payload.(batchPayload)
	require.True(t, ok)
	require.Len(t, second.To, 1)
	assert.Equal(t, "user2@example.com", second.To[0].EmailAddress.Address)
}

func TestSendBatchNoValidRecipients(t *testing.T) {
	sender := &fakeSender{}
	source := &sliceSource{rows: []RawRecipientRow{{Email: "nan"}, {Email: "broken"}}}

	d, err := NewDispatcher(testConfig(), sender, source)
	require.NoError(t, err)

	result, err := d.SendBatch(MergeInfo{})
	assert.ErrorIs(t, err, ErrNoValidRecipients)
	assert.Nil(t, result)
	assert.Empty(t, sender.calls, "no network call should be attempted")
}

func TestSendBatchSourceFailure(t *testing.T) {
	sender := &fakeSender{}
	source := &sliceSource{err: fmt.Errorf("disk gone")}

	d, err := NewDispatcher(testConfig(), sender, source)
	require.NoError(t, err)

	_, err = d.SendBatch(MergeInfo{})
	assert.Error(t, err)
	assert.Empty(t, sender.calls)
}
