package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"gorm.io/gorm"
)

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

// List returns categories ordered by name.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	query := s.db.WithContext(ctx).Model(&models.Category{})
	if onlyActive {
		query = query.Where("active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, fmt.Errorf("loading category: %w", err)
	}
	return &category, nil
}

// FindByIDs loads the given categories keyed by id.
func (s *Service) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error) {
	result := make(map[uuid.UUID]*models.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var found []models.Category
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	for i := range found {
		result[found[i].ID] = &found[i]
	}
	return result, nil
}

// Seed inserts the default categories into an empty table. It reports how
// many rows were created; zero means the table already had data.
func (s *Service) Seed(ctx context.Context) (int, error) {
	var created int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
			return fmt.Errorf("counting categories: %w", err)
		}
		if count > 0 {
			return nil
		}

		defaults := Defaults()
		if err := tx.Create(&defaults).Error; err != nil {
			return fmt.Errorf("seeding categories: %w", err)
		}
		created = len(defaults)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created == 0 {
		s.log.Info("categories already loaded, skipping seed")
	} else {
		s.log.Info("seeded default categories", "count", created)
	}
	return created, nil
}
