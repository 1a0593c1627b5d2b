package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"gorm.io/gorm"
)

// NormalizeEmail lowercases and trims an address. Emails are stored and
// compared only in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Service struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, log: log}
}

// ProfileInput is a partial update: nil fields are left untouched.
type ProfileInput struct {
	Name           *string
	Bio            *string
	ProfilePicture *string
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return findByID(s.db.WithContext(ctx), id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("loading user by email: %w", err)
	}
	return &user, nil
}

// FindByIDs loads the given users keyed by id. Missing ids are simply absent
// from the result.
func (s *Service) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	result := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var found []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	for i := range found {
		result[found[i].ID] = &found[i]
	}
	return result, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = findByID(tx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			if name := strings.TrimSpace(*input.Name); name != "" {
				user.Name = name
			}
		}
		if input.Bio != nil {
			user.Bio = strings.TrimSpace(*input.Bio)
		}
		if input.ProfilePicture != nil {
			user.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
		}

		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("profile updated", "user_id", id)
	return user, nil
}

// Deactivate marks the account DEACTIVATED. The row is kept so plans and
// participations keep their references.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if user.Status == models.AccountStatusDeactivated {
			return nil
		}

		if err := tx.Model(user).Update("status", models.AccountStatusDeactivated).Error; err != nil {
			return fmt.Errorf("deactivating account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("account deactivated", "user_id", id)
	return nil
}

func findByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &user, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
