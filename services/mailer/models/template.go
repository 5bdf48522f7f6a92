package models

import (
	"strings"
	"time"

	"campaign-mailer/services/mailer/dispatch"
	"campaign-mailer/shared/models"
)

// EmailTemplateInfo stores the last-used campaign parameters per operator,
// upserted after every send request
type EmailTemplateInfo struct {
	models.BaseModel
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	WebsiteLink  string `gorm:"size:500" json:"website_link"`
	WebsiteText  string `gorm:"size:255" json:"website_text"`
	TelegramLink string `gorm:"size:500" json:"telegram_link"`
	Team         string `gorm:"size:255;default:'Acct Bank Team'" json:"team"`
	ProductName  string `gorm:"size:255" json:"product_name"`
	LiveChatLink string `gorm:"size:500" json:"livechat_link"`
}

// TableName returns the table name for EmailTemplateInfo model
func (EmailTemplateInfo) TableName() string {
	return "email_template_infos"
}

// TemplateResponse represents the stored campaign template
type TemplateResponse struct {
	WebsiteLink  string    `json:"website_link"`
	WebsiteText  string    `json:"website_text"`
	TelegramLink string    `json:"telegram_link"`
	Team         string    `json:"team"`
	ProductName  string    `json:"product_name"`
	LiveChatLink string    `json:"livechat_link"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts EmailTemplateInfo to TemplateResponse
func (t *EmailTemplateInfo) ToResponse() *TemplateResponse {
	return &TemplateResponse{
		WebsiteLink:  t.WebsiteLink,
		WebsiteText:  t.WebsiteText,
		TelegramLink: t.TelegramLink,
		Team:         t.Team,
		ProductName:  t.ProductName,
		LiveChatLink: t.LiveChatLink,
		UpdatedAt:    t.UpdatedAt,
	}
}

// CampaignRequest represents the merge variables submitted with a send
// request; all fields are required
type CampaignRequest struct {
	WebsiteLink  string `json:"websiteLink" binding:"required"`
	WebsiteText  string `json:"websiteText" binding:"required"`
	TelegramLink string `json:"telegramLink" binding:"required"`
	Team         string `json:"team" binding:"required"`
	ProductName  string `json:"productName" binding:"required"`
	LiveChatLink string `json:"liveChatLink" binding:"required"`
}

// MergeInfo converts the request into campaign merge variables. Link fields
// lose their https:// prefix; the email template adds it back itself.
func (r *CampaignRequest) MergeInfo() dispatch.MergeInfo {
	return dispatch.MergeInfo{
		"website_link":  strings.TrimPrefix(r.WebsiteLink, "https://"),
		"website_text":  r.WebsiteText,
		"telegram_link": strings.TrimPrefix(r.TelegramLink, "https://"),
		"team":          r.Team,
		"product_name":  r.ProductName,
		"livechat_link": strings.TrimPrefix(r.LiveChatLink, "https://"),
	}
}

// ApplyTo copies the request fields onto the stored template record
func (r *CampaignRequest) ApplyTo(t *EmailTemplateInfo) {
	t.WebsiteLink = r.WebsiteLink
	t.WebsiteText = r.WebsiteText
	t.TelegramLink = r.TelegramLink
	t.Team = r.Team
	t.ProductName = r.ProductName
	t.LiveChatLink = r.LiveChatLink
}
