package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ivanquesadapalmero/planazo-backend/internal/api/validation"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
	"gorm.io/gorm"
)

const invalidCredentials = "invalid email or password"

type Service struct {
	db     *gorm.DB
	tokens TokenService
	log    *slog.Logger
}

func NewService(db *gorm.DB, tokens TokenService, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, tokens: tokens, log: log}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *models.User
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := users.NormalizeEmail(input.Email)
	if !validation.Email(email) {
		return nil, apperr.BadRequest("invalid email address")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.BadRequest("name is required")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		if isPasswordRuleError(err) {
			return nil, apperr.BadRequest("%s", err.Error())
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       models.AccountStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if count > 0 {
			return apperr.Conflict("email is already registered")
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("email is already registered")
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return &user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := users.NormalizeEmail(input.Email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			compareDummy(input.Password)
			return nil, apperr.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if !CheckPassword(input.Password, user.PasswordHash) || !user.IsActive() {
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResult{
		Token: token,
		User:  &user,
	}, nil
}
