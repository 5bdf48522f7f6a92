package usecase

import (
	"errors"
	"fmt"
	"strings"

	"campaign-mailer/services/mailer/models"
	"campaign-mailer/services/mailer/repository"
	"campaign-mailer/shared/middleware"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any authentication failure so that
// callers cannot probe which accounts exist
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthUsecase defines the interface for authentication business logic
type AuthUsecase interface {
	Login(email, password string) (*models.LoginResponse, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo     repository.UserRepository
	templateRepo repository.TemplateRepository
	jwtConfig    *middleware.JWTConfig
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repository.UserRepository, templateRepo repository.TemplateRepository, jwtConfig *middleware.JWTConfig) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		templateRepo: templateRepo,
		jwtConfig:    jwtConfig,
	}
}

// Login authenticates an operator and returns a token pair together with
// the operator's last-used campaign template, when one exists
func (a *authUsecase) Login(email, password string) (*models.LoginResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.userRepo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, fmt.Errorf("user account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := middleware.GenerateTokens(user.ID, user.Email, a.jwtConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	response := &models.LoginResponse{
		User:   user.ToResponse(),
		Tokens: tokens,
	}

	// A missing template is normal for a first login
	if template, err := a.templateRepo.GetByUserID(user.ID); err == nil {
		response.Template = template.ToResponse()
	}

	return response, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
