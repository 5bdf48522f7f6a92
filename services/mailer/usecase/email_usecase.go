package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campaign-mailer/services/mailer/dispatch"
	"campaign-mailer/services/mailer/models"
	"campaign-mailer/services/mailer/repository"
	"campaign-mailer/shared/logger"
	"campaign-mailer/shared/redis"
)

// ErrNoCampaignResult is returned when a user has no cached campaign result
var ErrNoCampaignResult = errors.New("no campaign result available")

// lastResultTTL bounds how long a cached campaign summary is kept
const lastResultTTL = 7 * 24 * time.Hour

// EmailUsecase defines the interface for send business logic
type EmailUsecase interface {
	SendTestEmail(userID uint, userEmail string, req *models.CampaignRequest) error
	SendCampaign(userID uint, req *models.CampaignRequest) (*dispatch.Result, error)
	LastCampaignResult(userID uint) (*dispatch.Result, error)
}

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	dispatcher   *dispatch.Dispatcher
	templateRepo repository.TemplateRepository
	cache        *redis.Client // optional; nil disables result caching
}

// NewEmailUsecase creates a new email usecase
func NewEmailUsecase(dispatcher *dispatch.Dispatcher, templateRepo repository.TemplateRepository, cache *redis.Client) EmailUsecase {
	return &emailUsecase{
		dispatcher:   dispatcher,
		templateRepo: templateRepo,
		cache:        cache,
	}
}

// SendTestEmail sends the campaign template to the operator's own address
// and persists the submitted parameters as the operator's template record
func (e *emailUsecase) SendTestEmail(userID uint, userEmail string, req *models.CampaignRequest) error {
	if err := e.dispatcher.SendSingle(userEmail, req.MergeInfo()); err != nil {
		return fmt.Errorf("failed to send test email: %w", err)
	}

	e.saveTemplate(userID, req)
	return nil
}

// SendCampaign dispatches the full recipient list in batches, persists the
// submitted parameters and caches the dispatch summary for the operator
func (e *emailUsecase) SendCampaign(userID uint, req *models.CampaignRequest) (*dispatch.Result, error) {
	result, err := e.dispatcher.SendBatch(req.MergeInfo())
	if err != nil {
		return nil, err
	}

	e.saveTemplate(userID, req)
	e.cacheResult(userID, result)

	return result, nil
}

// LastCampaignResult returns the cached summary of the operator's most
// recent campaign dispatch
func (e *emailUsecase) LastCampaignResult(userID uint) (*dispatch.Result, error) {
	if e.cache == nil {
		return nil, ErrNoCampaignResult
	}

	raw, err := e.cache.Get(lastResultKey(userID))
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrNoCampaignResult
		}
		return nil, fmt.Errorf("failed to read campaign result: %w", err)
	}

	var result dispatch.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to decode campaign result: %w", err)
	}

	return &result, nil
}

// saveTemplate upserts the operator's template record. A storage failure is
// logged but does not undo an already-sent request.
func (e *emailUsecase) saveTemplate(userID uint, req *models.CampaignRequest) {
	template := &models.EmailTemplateInfo{UserID: userID}
	req.ApplyTo(template)

	if err := e.templateRepo.Upsert(template); err != nil {
		logger.WithError(err).WithField("user_id", userID).Warn("Failed to save template record")
	}
}

// cacheResult stores the latest campaign summary in Redis
func (e *emailUsecase) cacheResult(userID uint, result *dispatch.Result) {
	if e.cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		logger.WithError(err).Warn("Failed to encode campaign result")
		return
	}

	if err := e.cache.Set(lastResultKey(userID), raw, lastResultTTL); err != nil {
		logger.WithError(err).WithField("user_id", userID).Warn("Failed to cache campaign result")
	}
}

func lastResultKey(userID uint) string {
	return fmt.Sprintf("mailer:last_campaign:%d", userID)
}
