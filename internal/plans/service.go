package plans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/paging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinParticipants = 2
	MaxParticipants = 100
)

var sortColumns = map[string]string{
	"eventDate":           "event_date",
	"createdAt":           "created_at",
	"updatedAt":           "updated_at",
	"title":               "title",
	"maxParticipants":     "max_participants",
	"currentParticipants": "current_participants",
}

type Service struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	Title           string
	Description     string
	CategoryID      uuid.UUID
	Location        string
	Latitude        *float64
	Longitude       *float64
	EventDate       time.Time
	MaxParticipants int
	ImageURL        string
}

// UpdateInput is a partial update: nil fields are left untouched, and blank
// title or location values are ignored.
type UpdateInput struct {
	Title           *string
	Description     *string
	Location        *string
	Latitude        *float64
	Longitude       *float64
	EventDate       *time.Time
	MaxParticipants *int
	ImageURL        *string
}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	Status     models.PlanStatus
	CategoryID uuid.UUID
	CreatorID  uuid.UUID
	Location   string
	Upcoming   bool
}

// LockForUpdate loads a plan inside tx holding its row lock until the
// transaction ends. Every capacity change goes through it.
func LockForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan not found")
		}
		return nil, fmt.Errorf("locking plan: %w", err)
	}
	return &plan, nil
}

func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, input CreateInput) (*models.Plan, error) {
	title := strings.TrimSpace(input.Title)
	location := strings.TrimSpace(input.Location)
	if title == "" {
		return nil, apperr.BadRequest("title is required")
	}
	if location == "" {
		return nil, apperr.BadRequest("location is required")
	}
	if err := checkCapacity(input.MaxParticipants); err != nil {
		return nil, err
	}
	if !input.EventDate.After(s.now()) {
		return nil, apperr.BadRequest("event date must be in the future")
	}

	plan := models.Plan{
		Title:               title,
		Description:         strings.TrimSpace(input.Description),
		CategoryID:          input.CategoryID,
		CreatorID:           creatorID,
		Location:            location,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		EventDate:           input.EventDate.UTC(),
		MaxParticipants:     input.MaxParticipants,
		CurrentParticipants: 1,
		Status:              models.PlanStatusActive,
		ImageURL:            strings.TrimSpace(input.ImageURL),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.User{}, creatorID, "user not found"); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Category{}, input.CategoryID, "category not found"); err != nil {
			return err
		}
		if err := tx.Create(&plan).Error; err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("plan created", "plan_id", plan.ID, "creator_id", creatorID, "max_participants", plan.MaxParticipants)
	return &plan, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan not found")
		}
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	return &plan, nil
}

func (s *Service) List(ctx context.Context, filter Filter, page paging.Request) (paging.Page[models.Plan], error) {
	return s.list(ctx, filter, page, "created_at DESC")
}

// Upcoming lists ACTIVE plans that have not happened yet, soonest first.
func (s *Service) Upcoming(ctx context.Context, page paging.Request) (paging.Page[models.Plan], error) {
	return s.list(ctx, Filter{Status: models.PlanStatusActive, Upcoming: true}, page, "event_date ASC")
}

func (s *Service) ByCategory(ctx context.Context, categoryID uuid.UUID, page paging.Request) (paging.Page[models.Plan], error) {
	return s.list(ctx, Filter{Status: models.PlanStatusActive, CategoryID: categoryID}, page, "event_date ASC")
}

// ByCreator lists every plan of a creator regardless of status, newest first.
func (s *Service) ByCreator(ctx context.Context, creatorID uuid.UUID, page paging.Request) (paging.Page[models.Plan], error) {
	return s.list(ctx, Filter{CreatorID: creatorID}, page, "created_at DESC")
}

func (s *Service) SearchByLocation(ctx context.Context, location string, page paging.Request) (paging.Page[models.Plan], error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return paging.Page[models.Plan]{}, apperr.BadRequest("location is required")
	}
	return s.list(ctx, Filter{Status: models.PlanStatusActive, Location: location}, page, "event_date ASC")
}

func (s *Service) list(ctx context.Context, filter Filter, page paging.Request, fallbackOrder string) (paging.Page[models.Plan], error) {
	page = page.Normalize()

	if filter.Status != "" && !filter.Status.Valid() {
		return paging.Page[models.Plan]{}, apperr.BadRequest("unknown plan status %q", filter.Status)
	}
	order, err := page.OrderBy(sortColumns, fallbackOrder)
	if err != nil {
		return paging.Page[models.Plan]{}, err
	}

	query := s.db.WithContext(ctx).Model(&models.Plan{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != uuid.Nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.CreatorID != uuid.Nil {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.Upcoming {
		query = query.Where("event_date > ?", s.now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return paging.Page[models.Plan]{}, fmt.Errorf("counting plans: %w", err)
	}

	var plans []models.Plan
	if err := query.
		Order(order).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&plans).Error; err != nil {
		return paging.Page[models.Plan]{}, fmt.Errorf("listing plans: %w", err)
	}

	return paging.NewPage(plans, page, total), nil
}

func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, input UpdateInput) (*models.Plan, error) {
	var plan *models.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		plan, err = LockForUpdate(tx, id)
		if err != nil {
			return err
		}
		if plan.CreatorID != callerID {
			return apperr.Forbidden("you can only update your own plans")
		}

		if err := s.applyUpdate(plan, input); err != nil {
			return err
		}

		if err := tx.Save(plan).Error; err != nil {
			return fmt.Errorf("saving plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("plan updated", "plan_id", id, "status", plan.Status)
	return plan, nil
}

func (s *Service) applyUpdate(plan *models.Plan, input UpdateInput) error {
	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			plan.Title = title
		}
	}
	if input.Description != nil {
		plan.Description = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		if location := strings.TrimSpace(*input.Location); location != "" {
			plan.Location = location
		}
	}
	if input.Latitude != nil {
		plan.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		plan.Longitude = input.Longitude
	}
	if input.EventDate != nil {
		if !input.EventDate.After(s.now()) {
			return apperr.BadRequest("event date must be in the future")
		}
		plan.EventDate = input.EventDate.UTC()
	}
	if input.MaxParticipants != nil {
		limit := *input.MaxParticipants
		if err := checkCapacity(limit); err != nil {
			return err
		}
		if limit < plan.CurrentParticipants {
			return apperr.BadRequest("max participants cannot be lower than the %d current participants", plan.CurrentParticipants)
		}
		plan.MaxParticipants = limit
		plan.SyncCapacityStatus()
	}
	if input.ImageURL != nil {
		plan.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	return nil
}

// Delete removes the plan and its participation history.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := LockForUpdate(tx, id)
		if err != nil {
			return err
		}
		if plan.CreatorID != callerID {
			return apperr.Forbidden("you can only delete your own plans")
		}

		if err := tx.Where("plan_id = ?", id).Delete(&models.Participation{}).Error; err != nil {
			return fmt.Errorf("deleting participations: %w", err)
		}
		if err := tx.Delete(plan).Error; err != nil {
			return fmt.Errorf("deleting plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("plan deleted", "plan_id", id)
	return nil
}

// Cancel moves the plan to CANCELLED for good. Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, id, callerID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := LockForUpdate(tx, id)
		if err != nil {
			return err
		}
		if plan.CreatorID != callerID {
			return apperr.Forbidden("you can only cancel your own plans")
		}

		switch plan.Status {
		case models.PlanStatusCancelled:
			return nil
		case models.PlanStatusCompleted:
			return apperr.BadRequest("a completed plan cannot be cancelled")
		}

		plan.Status = models.PlanStatusCancelled
		if err := tx.Save(plan).Error; err != nil {
			return fmt.Errorf("cancelling plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("plan cancelled", "plan_id", id)
	return nil
}

func checkCapacity(limit int) error {
	if limit < MinParticipants || limit > MaxParticipants {
		return apperr.BadRequest("max participants must be between %d and %d", MinParticipants, MaxParticipants)
	}
	return nil
}

func mustExist(tx *gorm.DB, model any, id uuid.UUID, msg string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking existence: %w", err)
	}
	if count == 0 {
		return apperr.NotFound("%s", msg)
	}
	return nil
}
