package models

import (
	"time"

	"campaign-mailer/shared/models"
)

// User represents an operator account allowed to trigger sends
type User struct {
	models.BaseModel
	Email          string `gorm:"uniqueIndex;not null;size:255" json:"email" validate:"required,email,max=255"`
	Name           string `gorm:"not null;size:100" json:"name" validate:"required,min=2,max=100"`
	HashedPassword string `gorm:"not null;size:255" json:"-" validate:"required"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for User model
func (User) TableName() string {
	return "users"
}

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents user response (without sensitive data)
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// LoginResponse represents login response payload: the token pair plus the
// user's last-used campaign template, when one exists
type LoginResponse struct {
	User     *UserResponse     `json:"user"`
	Tokens   *models.TokenPair `json:"tokens"`
	Template *TemplateResponse `json:"template"`
}
