package participations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/paging"
	"github.com/ivanquesadapalmero/planazo-backend/internal/plans"
	"gorm.io/gorm"
)

// Service runs the participation state machine:
//
//	(none) -> CONFIRMED -> LEFT | REMOVED -> CONFIRMED ...
//
// Each transition locks the plan row, so the participation change and the
// plan's counter and status commit together and concurrent joins on one plan
// are serialized.
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

func (s *Service) Join(ctx context.Context, planID, userID uuid.UUID) (*models.Participation, error) {
	var (
		participation models.Participation
		plan          *models.Plan
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		var err error
		plan, err = plans.LockForUpdate(tx, planID)
		if err != nil {
			return err
		}

		now := s.now()
		if plan.Status != models.PlanStatusActive {
			return apperr.BadRequest("this plan is not accepting new participants")
		}
		if plan.IsFull() {
			return apperr.BadRequest("this plan is full")
		}
		if plan.CreatorID == userID {
			return apperr.BadRequest("you are already the creator of this plan")
		}

		existing, err := findParticipation(tx, planID, userID)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status == models.ParticipationConfirmed {
			return apperr.BadRequest("you are already participating in this plan")
		}
		if !plan.EventDate.After(now) {
			return apperr.BadRequest("cannot join a plan that has already happened")
		}

		if existing != nil {
			participation = *existing
			participation.Status = models.ParticipationConfirmed
			participation.JoinedAt = now
			participation.LeftAt = nil
			if err := tx.Save(&participation).Error; err != nil {
				return fmt.Errorf("rejoining plan: %w", err)
			}
		} else {
			participation = models.Participation{
				PlanID:   planID,
				UserID:   userID,
				Status:   models.ParticipationConfirmed,
				JoinedAt: now,
			}
			if err := tx.Create(&participation).Error; err != nil {
				return fmt.Errorf("joining plan: %w", err)
			}
		}

		plan.CurrentParticipants++
		plan.SyncCapacityStatus()
		return savePlanCapacity(tx, plan)
	})
	if err != nil {
		return nil, err
	}

	transitionsTotal.WithLabelValues(transitionJoin).Inc()
	s.log.Info("participant joined",
		"plan_id", planID,
		"user_id", userID,
		"current_participants", plan.CurrentParticipants,
		"plan_status", plan.Status,
	)
	return &participation, nil
}

func (s *Service) Leave(ctx context.Context, planID, userID uuid.UUID) error {
	var plan *models.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		var err error
		plan, err = plans.LockForUpdate(tx, planID)
		if err != nil {
			return err
		}
		if plan.CreatorID == userID {
			return apperr.BadRequest("the creator cannot leave their own plan, cancel it instead")
		}

		participation, err := findParticipation(tx, planID, userID)
		if err != nil {
			return err
		}
		if participation == nil {
			return apperr.NotFound("you are not participating in this plan")
		}
		if participation.Status != models.ParticipationConfirmed {
			return apperr.BadRequest("you are not actively participating in this plan")
		}

		return s.release(tx, plan, participation, models.ParticipationLeft)
	})
	if err != nil {
		return err
	}

	transitionsTotal.WithLabelValues(transitionLeave).Inc()
	s.log.Info("participant left",
		"plan_id", planID,
		"user_id", userID,
		"current_participants", plan.CurrentParticipants,
		"plan_status", plan.Status,
	)
	return nil
}

// Remove lets the plan's creator drop a confirmed participant.
func (s *Service) Remove(ctx context.Context, planID, targetUserID, callerID uuid.UUID) error {
	var plan *models.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, callerID); err != nil {
			return err
		}

		var err error
		plan, err = plans.LockForUpdate(tx, planID)
		if err != nil {
			return err
		}
		if plan.CreatorID != callerID {
			return apperr.Forbidden("only the creator can remove participants")
		}
		if targetUserID == plan.CreatorID {
			return apperr.BadRequest("the creator cannot be removed from their own plan")
		}

		participation, err := findParticipation(tx, planID, targetUserID)
		if err != nil {
			return err
		}
		if participation == nil {
			return apperr.NotFound("user is not participating in this plan")
		}
		if participation.Status != models.ParticipationConfirmed {
			return apperr.BadRequest("user is not actively participating in this plan")
		}

		return s.release(tx, plan, participation, models.ParticipationRemoved)
	})
	if err != nil {
		return err
	}

	transitionsTotal.WithLabelValues(transitionRemove).Inc()
	s.log.Info("participant removed",
		"plan_id", planID,
		"user_id", targetUserID,
		"removed_by", callerID,
		"current_participants", plan.CurrentParticipants,
		"plan_status", plan.Status,
	)
	return nil
}

// release ends a confirmed participation and frees its seat. A FULL plan goes
// back to ACTIVE; CANCELLED and COMPLETED plans keep their status.
func (s *Service) release(tx *gorm.DB, plan *models.Plan, participation *models.Participation, status models.ParticipationStatus) error {
	now := s.now()
	participation.Status = status
	participation.LeftAt = &now
	if err := tx.Save(participation).Error; err != nil {
		return fmt.Errorf("updating participation: %w", err)
	}

	plan.CurrentParticipants--
	plan.SyncCapacityStatus()
	return savePlanCapacity(tx, plan)
}

// Participants returns the users with a CONFIRMED participation, earliest
// joiner first. The creator is not included.
func (s *Service) Participants(ctx context.Context, planID uuid.UUID) ([]models.User, error) {
	db := s.db.WithContext(ctx)
	if err := planExists(db, planID); err != nil {
		return nil, err
	}

	var users []models.User
	err := db.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN participations ON participations.user_id = users.id").
		Where("participations.plan_id = ? AND participations.status = ?", planID, models.ParticipationConfirmed).
		Order("participations.joined_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	return users, nil
}

func (s *Service) IsParticipating(ctx context.Context, planID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Participation{}).
		Where("plan_id = ? AND user_id = ? AND status = ?", planID, userID, models.ParticipationConfirmed).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking participation: %w", err)
	}
	return count > 0, nil
}

// ForUser pages the user's CONFIRMED participations, most recent first.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID, page paging.Request) (paging.Page[models.Participation], error) {
	page = page.Normalize()
	order, err := page.OrderBy(map[string]string{"joinedAt": "joined_at"}, "joined_at DESC")
	if err != nil {
		return paging.Page[models.Participation]{}, err
	}

	query := s.db.WithContext(ctx).Model(&models.Participation{}).
		Where("user_id = ? AND status = ?", userID, models.ParticipationConfirmed)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return paging.Page[models.Participation]{}, fmt.Errorf("counting participations: %w", err)
	}

	var items []models.Participation
	if err := query.
		Order(order).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&items).Error; err != nil {
		return paging.Page[models.Participation]{}, fmt.Errorf("listing participations: %w", err)
	}

	return paging.NewPage(items, page, total), nil
}

func findParticipation(tx *gorm.DB, planID, userID uuid.UUID) (*models.Participation, error) {
	var participation models.Participation
	err := tx.Where("plan_id = ? AND user_id = ?", planID, userID).First(&participation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading participation: %w", err)
	}
	return &participation, nil
}

func savePlanCapacity(tx *gorm.DB, plan *models.Plan) error {
	err := tx.Model(plan).Updates(map[string]any{
		"current_participants": plan.CurrentParticipants,
		"status":               plan.Status,
	}).Error
	if err != nil {
		return fmt.Errorf("updating plan capacity: %w", err)
	}
	return nil
}

func userExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking user: %w", err)
	}
	if count == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func planExists(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Plan{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking plan: %w", err)
	}
	if count == 0 {
		return apperr.NotFound("plan not found")
	}
	return nil
}
