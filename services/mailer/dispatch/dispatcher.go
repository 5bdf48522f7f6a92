package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"campaign-mailer/shared/logger"
)

const defaultBatchLimit = 500 // safe provider batch size

// ErrMissingAPIKey is returned when the provider credential is not configured
var ErrMissingAPIKey = errors.New("provider API key is not configured")

// Config holds provider settings for a dispatcher
type Config struct {
	APIKey      string
	BaseURL     string
	TemplateKey string
	FromAddress string
	BatchLimit  int
}

// Result summarizes one batch dispatch. FailedBatches lists the 1-based
// indices of batches that exhausted their retries.
type Result struct {
	Total         int   `json:"total"`
	Sent          int   `json:"sent"`
	FailedBatches []int `json:"failed_batches"`
}

// Dispatcher sends template emails through the ZeptoMail API, either a
// single test email or a chunked batch campaign
type Dispatcher struct {
	cfg    Config
	sender Sender
	source RecipientSource
}

// singlePayload is the provider's single-send envelope
type singlePayload struct {
	TemplateKey string       `json:"template_key"`
	From        EmailAddress `json:"from"`
	To          []toEntry    `json:"to"`
	MergeInfo   MergeInfo    `json:"merge_info"`
}

// batchPayload is the provider's batch-send envelope; each recipient
// carries its own merge_info
type batchPayload struct {
	TemplateKey string       `json:"template_key"`
	From        EmailAddress `json:"from"`
	To          []Recipient  `json:"to"`
}

type toEntry struct {
	EmailAddress EmailAddress `json:"email_address"`
}

// NewDispatcher creates a dispatcher. The API key is validated here, before
// any network activity, rather than per call.
func NewDispatcher(cfg Config, sender Sender, source RecipientSource) (*Dispatcher, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.zeptomail.com"
	}
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = defaultBatchLimit
	}

	return &Dispatcher{
		cfg:    cfg,
		sender: sender,
		source: source,
	}, nil
}

// SendSingle sends one test email to the given address. The local part of
// the address doubles as the display name. Sender failures propagate to the
// caller.
func (d *Dispatcher) SendSingle(email string, merge MergeInfo) error {
	payload := singlePayload{
		TemplateKey: d.cfg.TemplateKey,
		From: EmailAddress{
			Address: d.cfg.FromAddress,
			Name:    merge["team"],
		},
		To: []toEntry{
			{
				EmailAddress: EmailAddress{
					Address: email,
					Name:    localPart(email),
				},
			},
		},
		MergeInfo: merge,
	}

	if err := d.sender.Post(d.cfg.BaseURL+"/v1.1/email/template", payload, d.headers()); err != nil {
		return fmt.Errorf("failed to send single email: %w", err)
	}

	return nil
}

// SendBatch loads the recipient dataset, validates it and sends it in
// chunks of at most BatchLimit recipients. A chunk that exhausts its
// retries is recorded in the result and never aborts the remaining chunks.
func (d *Dispatcher) SendBatch(merge MergeInfo) (*Result, error) {
	rows, err := d.source.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	recipients, err := BuildRecipients(rows, merge)
	if err != nil {
		return nil, err
	}

	total := len(recipients)
	totalBatches := (total + d.cfg.BatchLimit - 1) / d.cfg.BatchLimit

	logger.Infof("Total recipients: %d", total)
	logger.Infof("Sending in %d batches...", totalBatches)

	result := &Result{
		Total:         total,
		FailedBatches: []int{},
	}

	batchIndex := 0
	for batch := range Chunk(recipients, d.cfg.BatchLimit) {
		batchIndex++
		logger.Infof("Sending batch %d/%d (%d emails)", batchIndex, totalBatches, len(batch))

		payload := batchPayload{
			TemplateKey: d.cfg.TemplateKey,
			From: EmailAddress{
				Address: d.cfg.FromAddress,
				Name:    merge["team"],
			},
			To: batch,
		}

		if err := d.sender.Post(d.cfg.BaseURL+"/v1.1/email/template/batch", payload, d.headers()); err != nil {
			logger.Errorf("Batch %d failed permanently: %v", batchIndex, err)
			result.FailedBatches = append(result.FailedBatches, batchIndex)
			continue
		}

		logger.Infof("Batch %d sent successfully.", batchIndex)
		result.Sent += len(batch)
	}

	logger.Infof("Completed sending: %d/%d emails, failed batches: %v",
		result.Sent, result.Total, result.FailedBatches)

	return result, nil
}

func (d *Dispatcher) headers() map[string]string {
	return map[string]string{
		"accept":        "application/json",
		"content-type":  "application/json",
		"authorization": "Zoho-enczapikey " + d.cfg.APIKey,
	}
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
